package engine

import "fmt"

// Action is the kind of load adjustment the progression rules decide.
type Action int

const (
	ActionHold Action = iota
	ActionIncrease
	ActionDecrease
)

// String returns the lowercase name used in the API and in storage.
func (a Action) String() string {
	switch a {
	case ActionIncrease:
		return "increase"
	case ActionDecrease:
		return "decrease"
	default:
		return "hold"
	}
}

// ParseAction is the inverse of String. Unknown names are an error so
// stored rows can't silently decode to Hold.
func ParseAction(s string) (Action, error) {
	switch s {
	case "increase":
		return ActionIncrease, nil
	case "decrease":
		return ActionDecrease, nil
	case "hold":
		return ActionHold, nil
	}
	return ActionHold, fmt.Errorf("unknown action %q", s)
}

// MarshalJSON encodes the action as its string name.
func (a Action) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON decodes an action from its string name.
func (a *Action) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("action must be a JSON string, got %s", data)
	}
	parsed, err := ParseAction(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Decision is a load adjustment: the action plus the fraction of the
// current load it applies to. Percent is 0 for Hold, positive
// otherwise (0.05 means a 5% change in the action's direction).
type Decision struct {
	Action  Action  `json:"action"`
	Percent float64 `json:"percent"`
}

// Adjustment step sizes as fractions of current load.
const (
	IncreaseStep = 0.05
	DecreaseStep = 0.05
)

// fatigueRepMargin is how far mean reps must sit below the target
// upper bound, together with a rep drop of 2 or more, before a
// session counts as a major fatigue drop.
const fatigueRepMargin = 2

// DecideAdjustment turns one exercise's completed working sets into a
// load adjustment. actualReps are the rep counts in set order,
// targetUpper the top of the programmed rep range, repDrop the
// first-to-last rep falloff as computed by the caller.
//
// Every set at or above targetUpper means the load is too light:
// Increase. A rep drop of 2 or more while mean reps sit more than
// fatigueRepMargin below target means the load is too heavy:
// Decrease. Everything between holds.
func DecideAdjustment(actualReps []int, targetUpper, repDrop int) Decision {
	if len(actualReps) == 0 {
		return Decision{Action: ActionHold}
	}

	allAtTop := true
	sum := 0
	for _, reps := range actualReps {
		if reps < targetUpper {
			allAtTop = false
		}
		sum += reps
	}
	if allAtTop {
		return Decision{Action: ActionIncrease, Percent: IncreaseStep}
	}

	mean := float64(sum) / float64(len(actualReps))
	if repDrop >= 2 && mean < float64(targetUpper-fatigueRepMargin) {
		return Decision{Action: ActionDecrease, Percent: DecreaseStep}
	}

	return Decision{Action: ActionHold}
}
