package usecase

import (
	"context"
	"time"

	"github.com/labelwise/backend/internal/domain"
	"go.uber.org/zap"
)

// AnalysisServiceConfig holds configuration for the analysis service
type AnalysisServiceConfig struct {
	// MockDelay simulates provider latency in mock mode
	MockDelay time.Duration
}

// AnalysisService is the entry point for ingredient extraction, product
// analysis and comparison. Extraction and analysis always produce a result:
// any transport or parse failure is replaced by mock output flagged as degraded.
type AnalysisService struct {
	selector   *TransportSelector
	parser     *ResponseParser
	mock       *MockGenerator
	comparator *Comparator
	mockDelay  time.Duration
	logger     *zap.Logger
}

// NewAnalysisService creates a new analysis service with dependencies
func NewAnalysisService(
	selector *TransportSelector,
	scorer domain.Scorer,
	config AnalysisServiceConfig,
	logger *zap.Logger,
) *AnalysisService {
	if scorer == nil {
		scorer = NewRandomScorer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AnalysisService{
		selector:   selector,
		parser:     NewResponseParser(scorer),
		mock:       NewMockGenerator(scorer),
		comparator: NewComparator(),
		mockDelay:  config.MockDelay,
		logger:     logger,
	}
}

// Mode reports which transport the service is currently using
func (s *AnalysisService) Mode() domain.Source {
	return s.selector.Mode()
}

// ExtractIngredients reads the ingredient list off a label image.
// Flow: mock mode -> mock list; else remote call -> parse -> mock on any failure
func (s *AnalysisService) ExtractIngredients(ctx context.Context, req domain.ImageRequest) domain.IngredientsResult {
	if s.selector.Mode() == domain.SourceMock {
		s.logger.Debug("mock mode enabled, using mock ingredients")
		s.simulateLatency(ctx)
		return domain.IngredientsResult{
			Ingredients: s.mock.MockIngredients(),
			Provenance:  domain.Provenance{Source: domain.SourceMock},
		}
	}

	text, source, err := s.selector.Fetch(ctx, IngredientsPrompt(req.ProductName), req)
	if err != nil {
		return s.fallbackIngredients(err)
	}

	ingredients, err := s.parser.ParseIngredients(text)
	if err != nil {
		return s.fallbackIngredients(err)
	}

	s.logger.Info("extracted ingredients",
		zap.String("source", string(source)),
		zap.Int("count", len(ingredients)))

	return domain.IngredientsResult{
		Ingredients: ingredients,
		Provenance:  domain.Provenance{Source: source},
	}
}

// AnalyzeProduct scores a product from its label image.
// Flow: mock mode -> mock analysis; else remote call -> parse -> mock on any failure
func (s *AnalysisService) AnalyzeProduct(ctx context.Context, req domain.ImageRequest) domain.ProductAnalysis {
	if s.selector.Mode() == domain.SourceMock {
		s.logger.Debug("mock mode enabled, using mock analysis")
		s.simulateLatency(ctx)
		return s.mock.MockAnalysis()
	}

	text, source, err := s.selector.Fetch(ctx, AnalysisPrompt(req.ProductName), req)
	if err != nil {
		return s.fallbackAnalysis(err)
	}

	analysis, err := s.parser.ParseAnalysis(text)
	if err != nil {
		return s.fallbackAnalysis(err)
	}
	analysis.Provenance.Source = source

	s.logger.Info("analyzed product",
		zap.String("source", string(source)),
		zap.Int("health", analysis.HealthScore),
		zap.Int("sustainability", analysis.SustainabilityScore),
		zap.Int("overall", analysis.OverallScore))

	return analysis
}

// CompareProducts ranks already-analyzed products locally; the model is
// never consulted. Fewer than two products is rejected before any work.
func (s *AnalysisService) CompareProducts(ctx context.Context, products []domain.Product) (*domain.ComparisonResult, error) {
	if len(products) < 2 {
		return nil, domain.ErrInsufficientProducts
	}

	if s.selector.Mode() == domain.SourceMock {
		s.simulateLatency(ctx)
	}

	result, err := s.comparator.Compare(products)
	if err != nil {
		return nil, err
	}

	s.logger.Info("compared products",
		zap.Int("count", len(products)),
		zap.String("winner", result.Winner.Name),
		zap.Bool("degraded", result.Degraded))

	return result, nil
}

func (s *AnalysisService) fallbackIngredients(cause error) domain.IngredientsResult {
	s.logger.Warn("ingredient extraction failed, using mock ingredients", zap.Error(cause))
	return domain.IngredientsResult{
		Ingredients: s.mock.MockIngredients(),
		Provenance:  degraded(cause),
	}
}

func (s *AnalysisService) fallbackAnalysis(cause error) domain.ProductAnalysis {
	s.logger.Warn("product analysis failed, using mock analysis", zap.Error(cause))
	analysis := s.mock.MockAnalysis()
	analysis.Provenance = degraded(cause)
	return analysis
}

func degraded(cause error) domain.Provenance {
	return domain.Provenance{
		Source:   domain.SourceMock,
		Degraded: true,
		Reason:   cause.Error(),
	}
}

// simulateLatency waits for the configured mock delay unless ctx ends first
func (s *AnalysisService) simulateLatency(ctx context.Context) {
	if s.mockDelay <= 0 {
		return
	}
	timer := time.NewTimer(s.mockDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
