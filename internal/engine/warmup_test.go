package engine

import "testing"

// TestRoundLoad verifies per-policy rounding with the half-up
// tie-break.
func TestRoundLoad(t *testing.T) {
	tests := []struct {
		name   string
		load   float64
		policy RoundingPolicy
		want   float64
	}{
		{"barbell down", 47.3, RoundBarbell, 45},
		{"barbell tie rounds up", 47.5, RoundBarbell, 50},
		{"barbell up", 48.1, RoundBarbell, 50},
		{"barbell exact", 60, RoundBarbell, 60},
		{"dumbbell up", 47.3, RoundDumbbell, 47.5},
		{"dumbbell tie rounds up", 48.75, RoundDumbbell, 50},
		{"dumbbell down", 46.1, RoundDumbbell, 45},
		{"machine", 33.7, RoundMachine, 32.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundLoad(tt.load, tt.policy); got != tt.want {
				t.Errorf("RoundLoad(%v, %s) = %v, want %v", tt.load, tt.policy, got, tt.want)
			}
		})
	}
}

// TestFormatLoad verifies display formatting: no decimal point for
// integral loads, exactly one decimal place otherwise.
func TestFormatLoad(t *testing.T) {
	tests := []struct {
		load float64
		want string
	}{
		{45, "45"},
		{100, "100"},
		{42.5, "42.5"},
		{2.5, "2.5"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := FormatLoad(tt.load); got != tt.want {
			t.Errorf("FormatLoad(%v) = %q, want %q", tt.load, got, tt.want)
		}
	}
}

// TestPlanRampWithTopLoad verifies the 50/70/85 ladder is rounded per
// policy and formatted for display.
func TestPlanRampWithTopLoad(t *testing.T) {
	top := 100.0
	steps := PlanRamp(&top, RoundBarbell, false)
	want := []RampStep{
		{Load: "50", Reps: "8-10 reps"},
		{Load: "70", Reps: "4-6 reps"},
		{Load: "85", Reps: "2-3 reps"},
	}
	if len(steps) != len(want) {
		t.Fatalf("got %d steps, want %d", len(steps), len(want))
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("step %d = %+v, want %+v", i, steps[i], want[i])
		}
	}
}

// TestPlanRampDumbbellRounding verifies dumbbell steps land on 2.5
// increments and mix integral and fractional formatting.
func TestPlanRampDumbbellRounding(t *testing.T) {
	top := 60.0
	steps := PlanRamp(&top, RoundDumbbell, false)
	wantLoads := []string{"30", "42.5", "50"}
	for i, w := range wantLoads {
		if steps[i].Load != w {
			t.Errorf("step %d load = %q, want %q", i, steps[i].Load, w)
		}
	}
}

// TestPlanRampCrankyJoints verifies the extra very-light step is
// prepended when the cranky-joint flag is set.
func TestPlanRampCrankyJoints(t *testing.T) {
	top := 100.0
	steps := PlanRamp(&top, RoundBarbell, true)
	if len(steps) != 4 {
		t.Fatalf("got %d steps, want 4", len(steps))
	}
	if steps[0].Load != "40" || steps[0].Reps != "10-12 reps" {
		t.Errorf("cranky step = %+v, want 40 x 10-12 reps", steps[0])
	}
	if steps[1].Load != "50" {
		t.Errorf("step after cranky = %q, want 50", steps[1].Load)
	}
}

// TestPlanRampWithoutTopLoad verifies percentage-only guidance when
// no planned top load is known.
func TestPlanRampWithoutTopLoad(t *testing.T) {
	steps := PlanRamp(nil, RoundBarbell, false)
	wantLoads := []string{"50%", "70%", "85%"}
	for i, w := range wantLoads {
		if steps[i].Load != w {
			t.Errorf("step %d load = %q, want %q", i, steps[i].Load, w)
		}
	}

	cranky := PlanRamp(nil, RoundMachine, true)
	if cranky[0].Load != "40%" {
		t.Errorf("cranky percentage step = %q, want 40%%", cranky[0].Load)
	}
}

// TestParseRoundingPolicy verifies wire-name parsing round-trips and
// rejects unknown names.
func TestParseRoundingPolicy(t *testing.T) {
	for _, p := range []RoundingPolicy{RoundBarbell, RoundDumbbell, RoundMachine} {
		parsed, err := ParseRoundingPolicy(p.String())
		if err != nil {
			t.Fatalf("ParseRoundingPolicy(%q): %v", p.String(), err)
		}
		if parsed != p {
			t.Errorf("ParseRoundingPolicy(%q) = %v, want %v", p.String(), parsed, p)
		}
	}
	if _, err := ParseRoundingPolicy("kettlebell"); err == nil {
		t.Error("ParseRoundingPolicy accepted unknown policy")
	}
}
