package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionLog is one exercise's completed working sets plus the
// adjustment decision the engine made for it.
type SessionLog struct {
	ID           uuid.UUID `json:"id"`
	UserID       int       `json:"user_id"`
	Exercise     string    `json:"exercise"`
	PerformedAt  time.Time `json:"performed_at"`
	DayLabel     string    `json:"day_label"`
	Reps         []int32   `json:"reps"`
	TargetUpper  int       `json:"target_upper"`
	RepDrop      int       `json:"rep_drop"`
	Readiness    *int      `json:"readiness,omitempty"`
	Action       string    `json:"action"`
	Percent      float64   `json:"percent"`
	LoadModifier float64   `json:"load_modifier"`
	CreatedAt    time.Time `json:"created_at"`
}

// InsertSessionLog inserts a session log row. Returns true if
// inserted, false if a row with the same ID already exists.
func (db *DB) InsertSessionLog(ctx context.Context, row SessionLog) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO session_logs (id, user_id, exercise, performed_at, day_label, reps,
		 target_upper, rep_drop, readiness, action, percent, load_modifier)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		 ON CONFLICT DO NOTHING`,
		row.ID, row.UserID, row.Exercise, row.PerformedAt, row.DayLabel, row.Reps,
		row.TargetUpper, row.RepDrop, row.Readiness, row.Action, row.Percent, row.LoadModifier)
	if err != nil {
		return false, fmt.Errorf("inserting session log: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// QuerySessionLogs retrieves session logs in a time range, newest
// first. exerciseFilter is a case-insensitive substring match; empty
// means all exercises.
func (db *DB) QuerySessionLogs(ctx context.Context, start, end time.Time, userID int, exerciseFilter string) ([]SessionLog, error) {
	query := `SELECT id, user_id, exercise, performed_at, day_label, reps,
	 target_upper, rep_drop, readiness, action, percent, load_modifier, created_at
	 FROM session_logs
	 WHERE performed_at >= $1 AND performed_at < $2 AND user_id = $3`
	args := []any{start, end, userID}
	if exerciseFilter != "" {
		query += ` AND exercise ILIKE $4`
		args = append(args, "%"+exerciseFilter+"%")
	}
	query += ` ORDER BY performed_at DESC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying session logs: %w", err)
	}
	defer rows.Close()

	var result []SessionLog
	for rows.Next() {
		var l SessionLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Exercise, &l.PerformedAt, &l.DayLabel, &l.Reps,
			&l.TargetUpper, &l.RepDrop, &l.Readiness, &l.Action, &l.Percent, &l.LoadModifier, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning session log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// GetSessionLog retrieves a single session log by ID.
func (db *DB) GetSessionLog(ctx context.Context, id uuid.UUID, userID int) (*SessionLog, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, exercise, performed_at, day_label, reps,
		 target_upper, rep_drop, readiness, action, percent, load_modifier, created_at
		 FROM session_logs
		 WHERE id = $1 AND user_id = $2`,
		id, userID)

	var l SessionLog
	err := row.Scan(&l.ID, &l.UserID, &l.Exercise, &l.PerformedAt, &l.DayLabel, &l.Reps,
		&l.TargetUpper, &l.RepDrop, &l.Readiness, &l.Action, &l.Percent, &l.LoadModifier, &l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying session log: %w", err)
	}
	return &l, nil
}

// ProgressionPoint is one session in an exercise's adjustment history.
type ProgressionPoint struct {
	PerformedAt time.Time `json:"performed_at"`
	DayLabel    string    `json:"day_label"`
	Reps        []int32   `json:"reps"`
	TargetUpper int       `json:"target_upper"`
	Action      string    `json:"action"`
	Percent     float64   `json:"percent"`
}

// GetExerciseProgression returns an exercise's sessions oldest first,
// capped at limit, so callers can trace how the load decisions
// evolved across a mesocycle.
func (db *DB) GetExerciseProgression(ctx context.Context, exercise string, userID, limit int) ([]ProgressionPoint, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT performed_at, day_label, reps, target_upper, action, percent
		 FROM (
		   SELECT performed_at, day_label, reps, target_upper, action, percent
		   FROM session_logs
		   WHERE user_id = $1 AND exercise ILIKE $2
		   ORDER BY performed_at DESC
		   LIMIT $3
		 ) recent
		 ORDER BY performed_at ASC`,
		userID, "%"+exercise+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("querying progression: %w", err)
	}
	defer rows.Close()

	var result []ProgressionPoint
	for rows.Next() {
		var p ProgressionPoint
		if err := rows.Scan(&p.PerformedAt, &p.DayLabel, &p.Reps, &p.TargetUpper, &p.Action, &p.Percent); err != nil {
			return nil, fmt.Errorf("scanning progression point: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
