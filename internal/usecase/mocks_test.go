package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/labelwise/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string]interface{}
	getError  error
	setError  error
	getCalled bool
	setCalled bool
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockVisionClient is a mock implementation of domain.VisionClient
type MockVisionClient struct {
	text    string
	err     error
	calls   int
	prompts []string
}

func (m *MockVisionClient) Generate(ctx context.Context, prompt, imageData string) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// MockAnalysisProxy is a mock implementation of domain.AnalysisProxy
type MockAnalysisProxy struct {
	text     string
	err      error
	calls    int
	requests []domain.ImageRequest
}

func (m *MockAnalysisProxy) Analyze(ctx context.Context, req domain.ImageRequest) (string, error) {
	m.calls++
	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// MockIdentityProvider is a mock implementation of domain.IdentityProvider
type MockIdentityProvider struct {
	user  *domain.User
	err   error
	calls int
}

func (m *MockIdentityProvider) UserInfo(ctx context.Context, accessToken string) (*domain.User, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *MockIdentityProvider) TokenInfo(ctx context.Context, accessToken string) (*domain.TokenInfo, error) {
	return &domain.TokenInfo{}, nil
}

// fixedScorer returns its scores in order, repeating the last one
type fixedScorer struct {
	scores []int
	next   int
}

func (f *fixedScorer) PlaceholderScore() int {
	score := f.scores[f.next]
	if f.next < len(f.scores)-1 {
		f.next++
	}
	return score
}

// MockAnalyzer is a mock implementation of Analyzer with optional blocking
type MockAnalyzer struct {
	mu           sync.Mutex
	ingredients  []string
	analysis     domain.ProductAnalysis
	extractCalls int
	compareCalls int
	// Extraction of blockOn images waits for block after signalling started
	blockOn string
	block   chan struct{}
	started chan struct{}
}

func (m *MockAnalyzer) ExtractIngredients(ctx context.Context, req domain.ImageRequest) domain.IngredientsResult {
	m.mu.Lock()
	m.extractCalls++
	m.mu.Unlock()

	if m.blockOn != "" && req.ImageData == m.blockOn {
		m.started <- struct{}{}
		<-m.block
	}
	return domain.IngredientsResult{
		Ingredients: m.ingredients,
		Provenance:  domain.Provenance{Source: domain.SourceMock},
	}
}

func (m *MockAnalyzer) AnalyzeProduct(ctx context.Context, req domain.ImageRequest) domain.ProductAnalysis {
	return m.analysis
}

func (m *MockAnalyzer) CompareProducts(ctx context.Context, products []domain.Product) (*domain.ComparisonResult, error) {
	m.mu.Lock()
	m.compareCalls++
	m.mu.Unlock()
	return NewComparator().Compare(products)
}
