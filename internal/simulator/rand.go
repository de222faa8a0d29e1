package simulator

import "math/rand/v2"

// RandSource is the randomness a simulation draws from.
// *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	NormFloat64() float64
}

// NewEntropySource returns a generator seeded from the runtime's entropy.
// Not safe for concurrent use; create one per simulation.
func NewEntropySource() RandSource {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeededSource returns a reproducible generator for tests and replays
func NewSeededSource(seed uint64) RandSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
