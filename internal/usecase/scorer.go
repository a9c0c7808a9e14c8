package usecase

import (
	"math/rand/v2"
	"sync"
)

// Placeholder scores fall in [placeholderMin, placeholderMin+placeholderSpan)
const (
	placeholderMin  = 20
	placeholderSpan = 60
)

// RandomScorer draws uniform placeholder scores in [20, 80).
// The zero value uses the global generator; NewSeededScorer gives a
// reproducible sequence.
type RandomScorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomScorer creates a scorer backed by the global random source
func NewRandomScorer() *RandomScorer {
	return &RandomScorer{}
}

// NewSeededScorer creates a scorer with a fixed seed
func NewSeededScorer(seed uint64) *RandomScorer {
	return &RandomScorer{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// PlaceholderScore returns a pseudo-random score in [20, 80)
func (s *RandomScorer) PlaceholderScore() int {
	return placeholderMin + s.intN(placeholderSpan)
}

// intN returns a value in [0, n)
func (s *RandomScorer) intN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}
