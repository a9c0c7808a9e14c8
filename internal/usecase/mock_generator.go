package usecase

import (
	"github.com/labelwise/backend/internal/domain"
)

// mockIngredientCatalog is the fixed set of ingredient lists served in mock mode
var mockIngredientCatalog = [][]string{
	{"Whole wheat flour", "Water", "Yeast", "Salt", "Olive oil"},
	{
		"Enriched wheat flour",
		"High fructose corn syrup",
		"Water",
		"Vegetable oil",
		"Preservatives",
		"Artificial flavors",
	},
	{"Organic oats", "Almonds", "Honey", "Sea salt", "Vanilla extract"},
	{
		"Sugar",
		"Palm oil",
		"Cocoa powder",
		"Milk powder",
		"Soy lecithin",
		"Artificial vanilla",
	},
}

// MockGenerator produces plausible ingredient lists and analyses without any
// remote dependency.
type MockGenerator struct {
	scorer domain.Scorer
	pick   func(n int) int
}

// NewMockGenerator creates a mock generator. Catalog entries are picked with
// the same random source as the scorer when it is a *RandomScorer.
func NewMockGenerator(scorer domain.Scorer) *MockGenerator {
	if scorer == nil {
		scorer = NewRandomScorer()
	}

	pick := NewRandomScorer().intN
	if rs, ok := scorer.(*RandomScorer); ok {
		pick = rs.intN
	}

	return &MockGenerator{
		scorer: scorer,
		pick:   pick,
	}
}

// MockIngredients returns a copy of one catalog entry
func (g *MockGenerator) MockIngredients() []string {
	entry := mockIngredientCatalog[g.pick(len(mockIngredientCatalog))]
	out := make([]string, len(entry))
	copy(out, entry)
	return out
}

// MockAnalysis synthesizes a full analysis from two independent placeholder scores.
// Note and recommendation wording is chosen by score thresholds only.
func (g *MockGenerator) MockAnalysis() domain.ProductAnalysis {
	healthScore := g.scorer.PlaceholderScore()
	sustainabilityScore := g.scorer.PlaceholderScore()
	overallScore := overall(healthScore, sustainabilityScore)

	return domain.ProductAnalysis{
		HealthScore:         healthScore,
		SustainabilityScore: sustainabilityScore,
		OverallScore:        overallScore,
		HealthNotes: []string{
			pickNote(healthScore > 60, "Contains beneficial nutrients", "High in processed ingredients"),
			pickNote(healthScore > 50, "Low in artificial additives", "Contains preservatives and artificial flavors"),
		},
		SustainabilityNotes: []string{
			pickNote(sustainabilityScore > 60, "Environmentally friendly packaging", "Uses palm oil and non-sustainable ingredients"),
			pickNote(sustainabilityScore > 50, "Locally sourced ingredients", "High carbon footprint from processing"),
		},
		Recommendation: pickNote(overallScore > 60,
			"This is a good choice for health and sustainability.",
			"Consider alternatives with better health and environmental scores."),
		Provenance: domain.Provenance{Source: domain.SourceMock},
	}
}

// overall is the floored mean of the two category scores
func overall(health, sustainability int) int {
	return (health + sustainability) / 2
}

func pickNote(cond bool, good, bad string) string {
	if cond {
		return good
	}
	return bad
}
