package engine

import "testing"

// TestLoadModifier verifies the readiness lookup: low readiness
// suppresses load, three stars and up are neutral.
func TestLoadModifier(t *testing.T) {
	tests := []struct {
		stars int
		want  float64
	}{
		{1, -0.10},
		{2, -0.05},
		{3, 0},
		{4, 0},
		{5, 0},
	}
	for _, tt := range tests {
		if got := LoadModifier(tt.stars); got != tt.want {
			t.Errorf("LoadModifier(%d) = %v, want %v", tt.stars, got, tt.want)
		}
	}
}

// TestAllowTestSet verifies only peak readiness permits a test set.
func TestAllowTestSet(t *testing.T) {
	for stars := 1; stars <= 4; stars++ {
		if AllowTestSet(stars) {
			t.Errorf("AllowTestSet(%d) = true, want false", stars)
		}
	}
	if !AllowTestSet(5) {
		t.Error("AllowTestSet(5) = false, want true")
	}
}
