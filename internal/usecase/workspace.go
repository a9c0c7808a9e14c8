package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/labelwise/backend/internal/domain"
	"go.uber.org/zap"
)

// Analyzer is the analysis pipeline the workspace drives
type Analyzer interface {
	ExtractIngredients(ctx context.Context, req domain.ImageRequest) domain.IngredientsResult
	AnalyzeProduct(ctx context.Context, req domain.ImageRequest) domain.ProductAnalysis
	CompareProducts(ctx context.Context, products []domain.Product) (*domain.ComparisonResult, error)
}

// WorkspaceConfig holds configuration for the workspace
type WorkspaceConfig struct {
	MaxProducts int
}

// session is one user's working set
type session struct {
	products   []domain.Product
	images     map[string]string
	comparison *domain.ComparisonResult
	busy       bool
}

// Workspace keeps each user's scanned products in memory. At most one
// operation per user is outstanding; a second one fails with ErrBusy.
type Workspace struct {
	analyzer    Analyzer
	maxProducts int
	logger      *zap.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// NewWorkspace creates a new workspace with dependencies
func NewWorkspace(analyzer Analyzer, config WorkspaceConfig, logger *zap.Logger) *Workspace {
	maxProducts := config.MaxProducts
	if maxProducts <= 0 {
		maxProducts = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Workspace{
		analyzer:    analyzer,
		maxProducts: maxProducts,
		logger:      logger,
		sessions:    make(map[string]*session),
	}
}

// MaxProducts returns the per-user capacity
func (w *Workspace) MaxProducts() int {
	return w.maxProducts
}

// AddProduct scans a label into the user's working set.
// Flow: extract ingredients -> analyze -> append; the last comparison is discarded
func (w *Workspace) AddProduct(ctx context.Context, user *domain.User, req domain.AddProductRequest) (*domain.Product, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	if strings.TrimSpace(req.ImageData) == "" {
		return nil, fmt.Errorf("%w: image data is required", domain.ErrInvalidRequest)
	}

	s, err := w.acquire(user.ID)
	if err != nil {
		return nil, err
	}
	defer w.release(user.ID)

	w.mu.Lock()
	count := len(s.products)
	w.mu.Unlock()
	if count >= w.maxProducts {
		return nil, fmt.Errorf("%w: maximum %d products", domain.ErrWorkspaceFull, w.maxProducts)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = fmt.Sprintf("Product %d", count+1)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate product id: %w", err)
	}

	imageReq := domain.ImageRequest{
		ImageData:   req.ImageData,
		ProductName: name,
		AccessToken: userToken(ctx),
	}

	extracted := w.analyzer.ExtractIngredients(ctx, imageReq)
	analysis := w.analyzer.AnalyzeProduct(ctx, imageReq)

	imageURI := req.ImageURI
	if imageURI == "" {
		imageURI = fmt.Sprintf("/api/v1/products/%s/image", id)
	}

	product := domain.Product{
		ID:          id.String(),
		Name:        name,
		ImageURI:    imageURI,
		Ingredients: extracted.Ingredients,
		Analysis:    &analysis,
	}

	w.mu.Lock()
	s.products = append(s.products, product)
	s.images[product.ID] = req.ImageData
	s.comparison = nil
	w.mu.Unlock()

	w.logger.Info("product added",
		zap.String("user", user.ID),
		zap.String("product", product.ID),
		zap.Bool("degraded", extracted.Provenance.Degraded || analysis.Provenance.Degraded))

	return &product, nil
}

// Products returns a snapshot of the user's working set in insertion order
func (w *Workspace) Products(user *domain.User) ([]domain.Product, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	s, ok := w.sessions[user.ID]
	if !ok {
		return []domain.Product{}, nil
	}
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

// Image returns the stored label image for a product
func (w *Workspace) Image(user *domain.User, productID string) (string, error) {
	if user == nil {
		return "", domain.ErrUnauthenticated
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	s, ok := w.sessions[user.ID]
	if !ok {
		return "", domain.ErrProductNotFound
	}
	image, ok := s.images[productID]
	if !ok {
		return "", domain.ErrProductNotFound
	}
	return image, nil
}

// RemoveProduct deletes one product and discards the last comparison
func (w *Workspace) RemoveProduct(user *domain.User, productID string) error {
	if user == nil {
		return domain.ErrUnauthenticated
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	s, ok := w.sessions[user.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if s.busy {
		return domain.ErrBusy
	}

	for i, p := range s.products {
		if p.ID == productID {
			s.products = append(s.products[:i], s.products[i+1:]...)
			delete(s.images, productID)
			s.comparison = nil
			return nil
		}
	}
	return domain.ErrProductNotFound
}

// Clear empties the user's working set
func (w *Workspace) Clear(user *domain.User) error {
	if user == nil {
		return domain.ErrUnauthenticated
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	s, ok := w.sessions[user.ID]
	if !ok {
		return nil
	}
	if s.busy {
		return domain.ErrBusy
	}
	delete(w.sessions, user.ID)
	return nil
}

// Compare ranks the user's products and remembers the result.
// Fewer than two products is rejected before the busy flag is taken.
func (w *Workspace) Compare(ctx context.Context, user *domain.User) (*domain.ComparisonResult, error) {
	products, err := w.Products(user)
	if err != nil {
		return nil, err
	}
	if len(products) < 2 {
		return nil, domain.ErrInsufficientProducts
	}

	s, err := w.acquire(user.ID)
	if err != nil {
		return nil, err
	}
	defer w.release(user.ID)

	// Mutations may have landed before the busy flag was taken; rank what
	// the set holds now so the stored result matches it
	w.mu.Lock()
	products = make([]domain.Product, len(s.products))
	copy(products, s.products)
	w.mu.Unlock()
	if len(products) < 2 {
		return nil, domain.ErrInsufficientProducts
	}

	result, err := w.analyzer.CompareProducts(ctx, products)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	s.comparison = result
	w.mu.Unlock()

	return result, nil
}

// LastComparison returns the most recent comparison, if still valid
func (w *Workspace) LastComparison(user *domain.User) (*domain.ComparisonResult, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	s, ok := w.sessions[user.ID]
	if !ok || s.comparison == nil {
		return nil, domain.ErrComparisonNotFound
	}
	return s.comparison, nil
}

// acquire marks the user's session busy, creating it on first use
func (w *Workspace) acquire(userID string) (*session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, ok := w.sessions[userID]
	if !ok {
		s = &session{images: make(map[string]string)}
		w.sessions[userID] = s
	}
	if s.busy {
		return nil, domain.ErrBusy
	}
	s.busy = true
	return s, nil
}

func (w *Workspace) release(userID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if s, ok := w.sessions[userID]; ok {
		s.busy = false
	}
}

type accessTokenKey struct{}

// WithAccessToken attaches the caller's access token for forwarding to the proxy
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

func userToken(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey{}).(string)
	return token
}
