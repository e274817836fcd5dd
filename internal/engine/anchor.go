// Package engine implements the training adaptation engine: the
// calendar anchor tracker that maps dates to mesocycle week/day
// labels, the progression rules that turn set performance into load
// adjustments, and the warm-up ramp calculator. Everything here is
// deterministic over its inputs; the only state is the anchor, read
// and written through an injected AnchorStore.
package engine

import (
	"fmt"
	"time"
)

// DaysPerMicrocycle is the number of lift days in one training week.
// A calendar week holds six lift days plus one rest day.
const DaysPerMicrocycle = 6

// RestWeekday is the weekday that never counts as a lift day.
const RestWeekday = time.Thursday

// Anchor pairs a calendar date (start of day) with its training day
// number. Day numbers count lift days only and start at 1.
type Anchor struct {
	Date      time.Time
	DayNumber int
}

// AnchorStore persists the two anchor slots. Load reports ok=false
// when no anchor is stored; implementations that surface zero values
// for absent slots are handled by the tracker (a zero date or a day
// number below 1 counts as absent). Save must write both fields
// together so a reader never observes a half-updated anchor.
type AnchorStore interface {
	Load() (Anchor, bool, error)
	Save(Anchor) error
}

// Tracker converts calendar dates to training week/day labels using a
// persisted anchor.
type Tracker struct {
	store AnchorStore
}

// NewTracker creates a Tracker backed by the given store.
func NewTracker(store AnchorStore) *Tracker {
	return &Tracker{store: store}
}

// SetAnchor records that the given date is training week/day. Week is
// clamped to ≥1 and day to [1,6]; any existing anchor is overwritten.
func (t *Tracker) SetAnchor(week, day int, date time.Time) error {
	if week < 1 {
		week = 1
	}
	if day < 1 {
		day = 1
	}
	if day > DaysPerMicrocycle {
		day = DaysPerMicrocycle
	}
	a := Anchor{
		Date:      startOfDay(date),
		DayNumber: (week-1)*DaysPerMicrocycle + day,
	}
	if err := t.store.Save(a); err != nil {
		return fmt.Errorf("saving anchor: %w", err)
	}
	return nil
}

// EnsureAnchor sets the anchor only if none is stored yet. Calling it
// again with a different anchor is a no-op.
func (t *Tracker) EnsureAnchor(week, day int, date time.Time) error {
	a, ok, err := t.store.Load()
	if err != nil {
		return fmt.Errorf("loading anchor: %w", err)
	}
	if ok && anchorPresent(a) {
		return nil
	}
	return t.SetAnchor(week, day, date)
}

// Anchor returns the stored anchor, if any.
func (t *Tracker) Anchor() (Anchor, bool, error) {
	a, ok, err := t.store.Load()
	if err != nil {
		return Anchor{}, false, fmt.Errorf("loading anchor: %w", err)
	}
	if !ok || !anchorPresent(a) {
		return Anchor{}, false, nil
	}
	return a, true, nil
}

// WeekDay maps a date to its training week and day. Without an anchor
// it returns the documented fallback (1, 1). The training day number
// never goes below 1, so dates far before the anchor saturate at W1D1.
func (t *Tracker) WeekDay(date time.Time) (week, day int, err error) {
	a, ok, err := t.Anchor()
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		return 1, 1, nil
	}
	n := a.DayNumber + liftDayDelta(a.Date, startOfDay(date))
	if n < 1 {
		n = 1
	}
	return (n-1)/DaysPerMicrocycle + 1, (n-1)%DaysPerMicrocycle + 1, nil
}

// Label formats WeekDay as "W{week}D{day}".
func (t *Tracker) Label(date time.Time) (string, error) {
	week, day, err := t.WeekDay(date)
	if err != nil {
		return "", err
	}
	return FormatLabel(week, day), nil
}

// FormatLabel renders a week/day pair as "W{week}D{day}".
func FormatLabel(week, day int) string {
	return fmt.Sprintf("W%dD%d", week, day)
}

func anchorPresent(a Anchor) bool {
	return !a.Date.IsZero() && a.DayNumber >= 1
}

// startOfDay truncates to midnight in the instant's own location, so
// the walk below stays correct across DST transitions.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// liftDayDelta counts lift days between two start-of-day instants by
// walking one calendar day at a time. Forward walks count stepped-to
// lift days positively, backward walks negatively, so the result is
// signed and self-consistent regardless of which endpoint falls on
// the rest day.
func liftDayDelta(from, to time.Time) int {
	cmp := compareDates(from, to)
	if cmp == 0 {
		return 0
	}
	step := 1
	if cmp > 0 {
		step = -1
	}
	delta := 0
	for cur := from; !sameDate(cur, to); {
		cur = cur.AddDate(0, 0, step)
		if cur.Weekday() != RestWeekday {
			delta += step
		}
	}
	return delta
}

func sameDate(a, b time.Time) bool {
	return compareDates(a, b) == 0
}

// compareDates orders two instants by their civil dates, each taken
// in its own location.
func compareDates(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	switch {
	case ay != by:
		return cmpInt(ay, by)
	case am != bm:
		return cmpInt(int(am), int(bm))
	default:
		return cmpInt(ad, bd)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
