package state

import (
	"testing"
	"time"

	"github.com/claude/liftcycle/internal/engine"
)

func open(t *testing.T) *DB {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestLoadEmpty verifies a fresh store reports no anchor.
func TestLoadEmpty(t *testing.T) {
	s := open(t)
	_, ok, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("fresh store reported an anchor")
	}
}

// TestSaveLoadRoundTrip verifies both slots persist and read back.
func TestSaveLoadRoundTrip(t *testing.T) {
	s := open(t)
	want := engine.Anchor{
		Date:      time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		DayNumber: 8,
	}
	if err := s.Save(want); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("anchor not found after save")
	}
	if !got.Date.Equal(want.Date) || got.DayNumber != want.DayNumber {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}

// TestSaveOverwrites verifies a second save replaces both slots.
func TestSaveOverwrites(t *testing.T) {
	s := open(t)
	first := engine.Anchor{Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), DayNumber: 1}
	second := engine.Anchor{Date: time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC), DayNumber: 13}
	if err := s.Save(first); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(second); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !ok || !got.Date.Equal(second.Date) || got.DayNumber != second.DayNumber {
		t.Errorf("Load = %+v ok=%v, want %+v", got, ok, second)
	}
}

// TestSentinelDayNumber verifies a stored zero day number is treated
// as absent rather than surfaced as a broken anchor.
func TestSentinelDayNumber(t *testing.T) {
	s := open(t)
	if err := s.Save(engine.Anchor{Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), DayNumber: 0}); err != nil {
		t.Fatal(err)
	}
	_, ok, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("zero day number reported as a valid anchor")
	}
}

// TestClear verifies Clear removes the anchor.
func TestClear(t *testing.T) {
	s := open(t)
	if err := s.Save(engine.Anchor{Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), DayNumber: 3}); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	_, ok, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("anchor still present after Clear")
	}
}

// TestTrackerOverSQLite exercises the engine tracker against the real
// store, covering the persisted round trip end to end.
func TestTrackerOverSQLite(t *testing.T) {
	s := open(t)
	tr := engine.NewTracker(s)
	d := time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)
	if err := tr.SetAnchor(2, 2, d); err != nil {
		t.Fatal(err)
	}
	label, err := tr.Label(d)
	if err != nil {
		t.Fatal(err)
	}
	if label != "W2D2" {
		t.Errorf("Label = %q, want W2D2", label)
	}
}
