// Package mcp exposes the adaptation engine and session history to
// MCP clients (AI coaching assistants). Tools run against a
// DataSource so the same server works locally over the database or
// remotely over the REST API.
package mcp

import (
	"context"
	"time"

	"github.com/claude/liftcycle/internal/engine"
	"github.com/claude/liftcycle/internal/storage"
)

// DataSource abstracts the session log history. Both *storage.DB
// (local) and HTTPClient (remote via REST API) satisfy this
// interface.
type DataSource interface {
	QuerySessionLogs(ctx context.Context, start, end time.Time, userID int, exerciseFilter string) ([]storage.SessionLog, error)
	GetAdjustmentStats(ctx context.Context, userID int) (*storage.AdjustmentStats, error)
	GetExerciseProgression(ctx context.Context, exercise string, userID, limit int) ([]storage.ProgressionPoint, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)

// AnchorStatus describes the stored anchor for MCP consumers.
type AnchorStatus struct {
	Anchored  bool   `json:"anchored"`
	Date      string `json:"date,omitempty"`
	DayNumber int    `json:"day_number,omitempty"`
}

// LabelSource answers calendar questions. Locally this wraps the
// engine tracker; remotely it goes through the REST API.
type LabelSource interface {
	DayLabel(ctx context.Context, date time.Time) (week, day int, label string, err error)
	AnchorStatus(ctx context.Context) (AnchorStatus, error)
}

// TrackerSource adapts an engine.Tracker to LabelSource for local
// (stdio-over-state-file or in-process) use.
type TrackerSource struct {
	Tracker *engine.Tracker
}

var _ LabelSource = (*TrackerSource)(nil)

func (t *TrackerSource) DayLabel(_ context.Context, date time.Time) (int, int, string, error) {
	week, day, err := t.Tracker.WeekDay(date)
	if err != nil {
		return 0, 0, "", err
	}
	return week, day, engine.FormatLabel(week, day), nil
}

func (t *TrackerSource) AnchorStatus(context.Context) (AnchorStatus, error) {
	a, ok, err := t.Tracker.Anchor()
	if err != nil {
		return AnchorStatus{}, err
	}
	if !ok {
		return AnchorStatus{}, nil
	}
	return AnchorStatus{
		Anchored:  true,
		Date:      a.Date.Format("2006-01-02"),
		DayNumber: a.DayNumber,
	}, nil
}
