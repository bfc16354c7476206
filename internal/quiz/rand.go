package quiz

import "math/rand/v2"

// Rand is the randomness used to pick and shuffle questions. *rand.Rand from
// math/rand/v2 satisfies it, so tests can pass a seeded PCG source.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// DefaultRand returns a Rand backed by the goroutine-safe top-level functions of math/rand/v2.
func DefaultRand() Rand {
	return globalRand{}
}

// NewSeededRand returns a deterministic Rand.
func NewSeededRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func shuffleStrings(r Rand, values []string) {
	r.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
}
