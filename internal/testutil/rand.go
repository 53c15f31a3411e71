package testutil

// FixedRand is a deterministic source: Float64 always returns Value and
// IntN returns Int clamped to n.
type FixedRand struct {
	Value float64
	Int   int
}

func (r FixedRand) Float64() float64 { return r.Value }

func (r FixedRand) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return min(max(r.Int, 0), n-1)
}
