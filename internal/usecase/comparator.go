package usecase

import (
	"fmt"

	"github.com/labelwise/backend/internal/domain"
)

// Canned per-category reasons. Winners are data-driven; the wording is not.
const (
	healthReason         = "This product has fewer processed ingredients and artificial additives."
	sustainabilityReason = "This product uses more sustainable ingredients and packaging."
	overallReason        = "Best balance of health and sustainability factors."

	detailedAnalysisTemplate = "After comparing %d products, %s emerges as the winner with the best overall score. " +
		"This recommendation is based on a comprehensive analysis of ingredients, nutritional value, " +
		"environmental impact, and sustainability factors."
)

// scoreFunc reads one category score; products without analysis score 0
type scoreFunc func(a *domain.ProductAnalysis) int

func healthOf(a *domain.ProductAnalysis) int         { return a.HealthScore }
func sustainabilityOf(a *domain.ProductAnalysis) int { return a.SustainabilityScore }
func overallOf(a *domain.ProductAnalysis) int        { return a.OverallScore }

// Comparator picks per-category winners by maximum score
type Comparator struct{}

// NewComparator creates a comparator
func NewComparator() *Comparator {
	return &Comparator{}
}

// Compare builds a ComparisonResult for two or more products.
// Ties go to the product that appears first.
func (c *Comparator) Compare(products []domain.Product) (*domain.ComparisonResult, error) {
	if len(products) < 2 {
		return nil, domain.ErrInsufficientProducts
	}

	snapshot := make([]domain.Product, len(products))
	copy(snapshot, products)

	winner := argMax(snapshot, overallOf)

	return &domain.ComparisonResult{
		Products: snapshot,
		Winner:   winner,
		Comparison: domain.CategoryComparison{
			Health: domain.CategoryVerdict{
				Winner: argMax(snapshot, healthOf),
				Reason: healthReason,
			},
			Sustainability: domain.CategoryVerdict{
				Winner: argMax(snapshot, sustainabilityOf),
				Reason: sustainabilityReason,
			},
			Overall: domain.CategoryVerdict{
				Winner: winner,
				Reason: overallReason,
			},
		},
		DetailedAnalysis: fmt.Sprintf(detailedAnalysisTemplate, len(snapshot), winner.Name),
		Degraded:         anyDegraded(snapshot),
	}, nil
}

// argMax scans left to right and keeps the first product with the highest score
func argMax(products []domain.Product, score scoreFunc) domain.Product {
	best := products[0]
	bestScore := scoreOrZero(best, score)
	for _, p := range products[1:] {
		if s := scoreOrZero(p, score); s > bestScore {
			best = p
			bestScore = s
		}
	}
	return best
}

func scoreOrZero(p domain.Product, score scoreFunc) int {
	if p.Analysis == nil {
		return 0
	}
	return score(p.Analysis)
}

// anyDegraded reports whether a comparison rests on missing or fallback analyses
func anyDegraded(products []domain.Product) bool {
	for _, p := range products {
		if p.Analysis == nil || p.Analysis.Provenance.Degraded {
			return true
		}
	}
	return false
}
