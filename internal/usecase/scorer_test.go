package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomScorer_PlaceholderScoreRange(t *testing.T) {
	scorers := map[string]*RandomScorer{
		"global source": NewRandomScorer(),
		"seeded source": NewSeededScorer(42),
	}

	for name, scorer := range scorers {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 1000; i++ {
				score := scorer.PlaceholderScore()
				assert.GreaterOrEqual(t, score, 20)
				assert.Less(t, score, 80)
			}
		})
	}
}

func TestNewSeededScorer_IsReproducible(t *testing.T) {
	a := NewSeededScorer(7)
	b := NewSeededScorer(7)

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.PlaceholderScore(), b.PlaceholderScore())
	}
}
