package main

import (
	"fmt"
	"time"

	"github.com/claude/liftcycle/internal/engine"
	"github.com/claude/liftcycle/internal/state"
	"github.com/spf13/cobra"
)

// withTracker opens the state database, runs fn against a tracker,
// and closes the database again.
func withTracker(fn func(*engine.Tracker) error) error {
	st, err := state.Open(stateDir)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(engine.NewTracker(st))
}

func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

func anchorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anchor",
		Short: "Manage the mesocycle anchor",
	}

	var week, day int
	var dateStr string

	set := &cobra.Command{
		Use:   "set",
		Short: "Anchor a date to a training week/day, overwriting any existing anchor",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateFlag(dateStr)
			if err != nil {
				return err
			}
			return withTracker(func(tr *engine.Tracker) error {
				if err := tr.SetAnchor(week, day, date); err != nil {
					return err
				}
				fmt.Printf("anchored %s = %s\n", date.Format("2006-01-02"), engine.FormatLabel(week, day))
				return nil
			})
		},
	}
	set.Flags().IntVar(&week, "week", 1, "training week (>= 1)")
	set.Flags().IntVar(&day, "day", 1, "training day (1-6)")
	set.Flags().StringVar(&dateStr, "date", "", "anchor date (YYYY-MM-DD, default today)")

	ensure := &cobra.Command{
		Use:   "ensure",
		Short: "Anchor only if no anchor is stored yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateFlag(dateStr)
			if err != nil {
				return err
			}
			return withTracker(func(tr *engine.Tracker) error {
				if err := tr.EnsureAnchor(week, day, date); err != nil {
					return err
				}
				a, _, err := tr.Anchor()
				if err != nil {
					return err
				}
				fmt.Printf("anchor: %s day %d\n", a.Date.Format("2006-01-02"), a.DayNumber)
				return nil
			})
		},
	}
	ensure.Flags().IntVar(&week, "week", 1, "training week (>= 1)")
	ensure.Flags().IntVar(&day, "day", 1, "training day (1-6)")
	ensure.Flags().StringVar(&dateStr, "date", "", "anchor date (YYYY-MM-DD, default today)")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the stored anchor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(func(tr *engine.Tracker) error {
				a, ok, err := tr.Anchor()
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("no anchor set")
					return nil
				}
				fmt.Printf("anchor: %s day %d\n", a.Date.Format("2006-01-02"), a.DayNumber)
				return nil
			})
		},
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored anchor (start of a new mesocycle)",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := state.Open(stateDir)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Clear(); err != nil {
				return err
			}
			fmt.Println("anchor cleared")
			return nil
		},
	}

	cmd.AddCommand(set, ensure, show, clear)
	return cmd
}

func labelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "label [date]",
		Short: "Print the training label (e.g. W2D5) for a date, default today",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dateStr := ""
			if len(args) == 1 {
				dateStr = args[0]
			}
			date, err := parseDateFlag(dateStr)
			if err != nil {
				return err
			}
			return withTracker(func(tr *engine.Tracker) error {
				label, err := tr.Label(date)
				if err != nil {
					return err
				}
				fmt.Println(label)
				return nil
			})
		},
	}
}
