package sim

import "math/rand/v2"

// Source is the random source for malfunction rolls and question generation.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// NewSource returns a deterministic PCG source for a seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
