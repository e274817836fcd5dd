package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/claude/liftcycle/internal/engine"
	"github.com/spf13/cobra"
)

func adjustCmd() *cobra.Command {
	var repsStr string
	var target, repDrop, readiness int

	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Compute the load adjustment for a completed exercise",
		RunE: func(cmd *cobra.Command, args []string) error {
			reps, err := parseReps(repsStr)
			if err != nil {
				return err
			}
			if target < 1 {
				return fmt.Errorf("--target must be >= 1")
			}

			drop := reps[0] - reps[len(reps)-1]
			if cmd.Flags().Changed("drop") {
				drop = repDrop
			}

			d := engine.DecideAdjustment(reps, target, drop)
			switch d.Action {
			case engine.ActionHold:
				fmt.Println("hold")
			default:
				fmt.Printf("%s %.0f%%\n", d.Action, d.Percent*100)
			}

			if cmd.Flags().Changed("readiness") {
				if readiness < 1 || readiness > 5 {
					return fmt.Errorf("--readiness must be in [1,5]")
				}
				if mod := engine.LoadModifier(readiness); mod != 0 {
					fmt.Printf("readiness modifier %.0f%%\n", mod*100)
				}
				if engine.AllowTestSet(readiness) {
					fmt.Println("test set allowed")
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&repsStr, "reps", "", "comma-separated reps per set, e.g. 12,10,9")
	cmd.Flags().IntVar(&target, "target", 0, "top of the programmed rep range")
	cmd.Flags().IntVar(&repDrop, "drop", 0, "rep falloff override (default first minus last set)")
	cmd.Flags().IntVar(&readiness, "readiness", 0, "readiness stars 1-5")
	cmd.MarkFlagRequired("reps")
	cmd.MarkFlagRequired("target")
	return cmd
}

func warmupCmd() *cobra.Command {
	var top float64
	var policyStr string
	var cranky bool

	cmd := &cobra.Command{
		Use:   "warmup",
		Short: "Print the warm-up ramp for a planned top load",
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := engine.ParseRoundingPolicy(policyStr)
			if err != nil {
				return err
			}

			var topPtr *float64
			if cmd.Flags().Changed("top") {
				topPtr = &top
			}

			for _, step := range engine.PlanRamp(topPtr, policy, cranky) {
				fmt.Printf("%s x %s\n", step.Load, step.Reps)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&top, "top", 0, "planned top load (omit for percentage guidance)")
	cmd.Flags().StringVar(&policyStr, "policy", "barbell", "rounding policy: barbell, dumbbell, machine")
	cmd.Flags().BoolVar(&cranky, "cranky", false, "add an extra very-light step for cranky joints")
	return cmd
}

func parseReps(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	reps := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid rep count %q", p)
		}
		reps = append(reps, n)
	}
	if len(reps) == 0 {
		return nil, fmt.Errorf("--reps must not be empty")
	}
	return reps, nil
}
