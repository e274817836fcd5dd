package engine

import (
	"fmt"
	"math"
	"strconv"
)

// RoundingPolicy selects the load increment available on a piece of
// equipment. Barbells load in 2.5 plates per side (nearest 5 total);
// dumbbells and machine stacks move in 2.5 steps.
type RoundingPolicy int

const (
	RoundBarbell RoundingPolicy = iota
	RoundDumbbell
	RoundMachine
)

// ParseRoundingPolicy maps the wire names to a policy.
func ParseRoundingPolicy(s string) (RoundingPolicy, error) {
	switch s {
	case "barbell":
		return RoundBarbell, nil
	case "dumbbell":
		return RoundDumbbell, nil
	case "machine":
		return RoundMachine, nil
	}
	return RoundBarbell, fmt.Errorf("unknown rounding policy %q", s)
}

// String returns the wire name of the policy.
func (p RoundingPolicy) String() string {
	switch p {
	case RoundDumbbell:
		return "dumbbell"
	case RoundMachine:
		return "machine"
	default:
		return "barbell"
	}
}

// increment returns the load step the policy rounds to.
func (p RoundingPolicy) increment() float64 {
	if p == RoundBarbell {
		return 5
	}
	return 2.5
}

// RampStep is one warm-up set: a load (a rounded weight, or a bare
// percentage when no top load is known) and a rep-range hint.
type RampStep struct {
	Load string `json:"load"`
	Reps string `json:"reps"`
}

// Warm-up tiers as fractions of the planned top load. The cranky tier
// is an extra very-light step prepended for aggravated joints.
var rampTiers = []struct {
	fraction float64
	reps     string
}{
	{0.50, "8-10 reps"},
	{0.70, "4-6 reps"},
	{0.85, "2-3 reps"},
}

var crankyTier = struct {
	fraction float64
	reps     string
}{0.40, "10-12 reps"}

// PlanRamp builds the warm-up sets leading into a top set. With a
// known top load each step is rounded per policy; with top == nil the
// steps carry percentages only. crankyJoints prepends an extra
// very-light step.
func PlanRamp(top *float64, policy RoundingPolicy, crankyJoints bool) []RampStep {
	steps := make([]RampStep, 0, len(rampTiers)+1)

	if crankyJoints {
		steps = append(steps, rampStep(top, policy, crankyTier.fraction, crankyTier.reps))
	}
	for _, tier := range rampTiers {
		steps = append(steps, rampStep(top, policy, tier.fraction, tier.reps))
	}
	return steps
}

func rampStep(top *float64, policy RoundingPolicy, fraction float64, reps string) RampStep {
	if top == nil {
		return RampStep{
			Load: strconv.Itoa(int(math.Round(fraction*100))) + "%",
			Reps: reps,
		}
	}
	return RampStep{
		Load: FormatLoad(RoundLoad(*top*fraction, policy)),
		Reps: reps,
	}
}

// RoundLoad rounds a load to the policy's increment. Ties round half
// up: 47.5 on a barbell becomes 50.
func RoundLoad(load float64, policy RoundingPolicy) float64 {
	inc := policy.increment()
	return math.Floor(load/inc+0.5) * inc
}

// FormatLoad renders a load for display: integral values without a
// decimal point, fractional values with exactly one decimal place.
func FormatLoad(load float64) string {
	if load == math.Trunc(load) {
		return strconv.FormatFloat(load, 'f', 0, 64)
	}
	return strconv.FormatFloat(load, 'f', 1, 64)
}
