package yuletide

import (
	"math/rand/v2"
	"time"
)

// RandomSource yields uniformly distributed values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewRandom returns a PCG source. A nil seed seeds from the clock.
//
// Parameters:
//   - seed: the seed, or nil
//
// Returns:
//   - RandomSource: the source
func NewRandom(seed *int64) RandomSource {
	s := uint64(time.Now().UnixNano())
	if seed != nil {
		s = uint64(*seed)
	}
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}
