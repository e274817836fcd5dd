package engine

// Readiness is a subjective session-readiness rating from 1 (wrecked)
// to 5 (peak). Callers must keep values inside [1,5]; behavior
// outside that range is unspecified.

// LoadModifier returns the readiness-derived load adjustment as a
// fraction of current load. Low readiness suppresses load; high
// readiness never boosts it through this path.
func LoadModifier(stars int) float64 {
	switch stars {
	case 1:
		return -0.10
	case 2:
		return -0.05
	default:
		return 0
	}
}

// AllowTestSet reports whether readiness permits attempting a new rep
// or load test. Only peak readiness qualifies.
func AllowTestSet(stars int) bool {
	return stars >= 5
}
