package storage

import (
	"context"
	"fmt"
	"math"
	"time"
)

// AdjustmentStats holds aggregate statistics over stored session logs.
type AdjustmentStats struct {
	TotalSessions int64                `json:"total_sessions"`
	Increases     int64                `json:"increases"`
	Decreases     int64                `json:"decreases"`
	Holds         int64                `json:"holds"`
	IncreaseRate  float64              `json:"increase_rate"`
	DecreaseRate  float64              `json:"decrease_rate"`
	EarliestData  *time.Time           `json:"earliest_data"`
	LatestData    *time.Time           `json:"latest_data"`
	ByExercise    []ExerciseAdjustment `json:"by_exercise"`
}

// ExerciseAdjustment summarizes decisions for one exercise.
type ExerciseAdjustment struct {
	Exercise   string  `json:"exercise"`
	Sessions   int64   `json:"sessions"`
	Increases  int64   `json:"increases"`
	Decreases  int64   `json:"decreases"`
	Holds      int64   `json:"holds"`
	AvgRepDrop float64 `json:"avg_rep_drop"`
}

// GetAdjustmentStats returns aggregate decision statistics for a user.
func (db *DB) GetAdjustmentStats(ctx context.Context, userID int) (*AdjustmentStats, error) {
	stats := &AdjustmentStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*),
		 COUNT(*) FILTER (WHERE action = 'increase'),
		 COUNT(*) FILTER (WHERE action = 'decrease'),
		 COUNT(*) FILTER (WHERE action = 'hold'),
		 MIN(performed_at), MAX(performed_at)
		 FROM session_logs WHERE user_id = $1`, userID,
	).Scan(&stats.TotalSessions, &stats.Increases, &stats.Decreases, &stats.Holds,
		&stats.EarliestData, &stats.LatestData)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	stats.IncreaseRate = rate(stats.Increases, stats.TotalSessions)
	stats.DecreaseRate = rate(stats.Decreases, stats.TotalSessions)

	rows, err := db.Pool.Query(ctx,
		`SELECT exercise, COUNT(*),
		 COUNT(*) FILTER (WHERE action = 'increase'),
		 COUNT(*) FILTER (WHERE action = 'decrease'),
		 COUNT(*) FILTER (WHERE action = 'hold'),
		 AVG(rep_drop)
		 FROM session_logs WHERE user_id = $1
		 GROUP BY exercise
		 ORDER BY COUNT(*) DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("grouping by exercise: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e ExerciseAdjustment
		if err := rows.Scan(&e.Exercise, &e.Sessions, &e.Increases, &e.Decreases, &e.Holds, &e.AvgRepDrop); err != nil {
			return nil, fmt.Errorf("scanning exercise stats: %w", err)
		}
		stats.ByExercise = append(stats.ByExercise, e)
	}
	return stats, rows.Err()
}

// rate returns part/total rounded to three decimals, 0 when total is 0.
func rate(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 1000
}
