package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/labelwise/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkspace(maxProducts int) (*Workspace, *MockAnalyzer) {
	analyzer := &MockAnalyzer{
		ingredients: []string{"Oats", "Honey"},
		analysis: domain.ProductAnalysis{
			HealthScore:         60,
			SustainabilityScore: 40,
			OverallScore:        50,
		},
	}
	return NewWorkspace(analyzer, WorkspaceConfig{MaxProducts: maxProducts}, nil), analyzer
}

func TestWorkspace_AddProduct(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: "u1"}

	t.Run("requires a user", func(t *testing.T) {
		ws, _ := newTestWorkspace(5)
		_, err := ws.AddProduct(ctx, nil, domain.AddProductRequest{ImageData: "abc"})
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("requires image data", func(t *testing.T) {
		ws, analyzer := newTestWorkspace(5)
		_, err := ws.AddProduct(ctx, user, domain.AddProductRequest{Name: "Bar"})
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		assert.Zero(t, analyzer.extractCalls)
	})

	t.Run("default names and analysis", func(t *testing.T) {
		ws, _ := newTestWorkspace(5)

		first, err := ws.AddProduct(ctx, user, domain.AddProductRequest{ImageData: "abc"})
		require.NoError(t, err)
		second, err := ws.AddProduct(ctx, user, domain.AddProductRequest{ImageData: "def", Name: " Granola "})
		require.NoError(t, err)

		assert.Equal(t, "Product 1", first.Name)
		assert.Equal(t, "Granola", second.Name)
		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, []string{"Oats", "Honey"}, first.Ingredients)
		require.NotNil(t, first.Analysis)
		assert.Equal(t, 50, first.Analysis.OverallScore)
		assert.Equal(t, "/api/v1/products/"+first.ID+"/image", first.ImageURI)

		products, err := ws.Products(user)
		require.NoError(t, err)
		assert.Len(t, products, 2)

		image, err := ws.Image(user, second.ID)
		require.NoError(t, err)
		assert.Equal(t, "def", image)
	})

	t.Run("capacity", func(t *testing.T) {
		ws, _ := newTestWorkspace(1)

		_, err := ws.AddProduct(ctx, user, domain.AddProductRequest{ImageData: "abc"})
		require.NoError(t, err)
		_, err = ws.AddProduct(ctx, user, domain.AddProductRequest{ImageData: "abc"})
		assert.ErrorIs(t, err, domain.ErrWorkspaceFull)
	})

	t.Run("users are isolated", func(t *testing.T) {
		ws, _ := newTestWorkspace(5)
		other := &domain.User{ID: "u2"}

		_, err := ws.AddProduct(ctx, user, domain.AddProductRequest{ImageData: "abc"})
		require.NoError(t, err)

		products, err := ws.Products(other)
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}

func TestWorkspace_BusyFlag(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: "u1"}
	ws, analyzer := newTestWorkspace(5)
	analyzer.blockOn = "slow"
	analyzer.block = make(chan struct{})
	analyzer.started = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() {
		_, err := ws.AddProduct(ctx, user, domain.AddProductRequest{ImageData: "slow"})
		done <- err
	}()
	<-analyzer.started

	_, err := ws.AddProduct(ctx, user, domain.AddProductRequest{ImageData: "def"})
	assert.ErrorIs(t, err, domain.ErrBusy)
	assert.ErrorIs(t, ws.Clear(user), domain.ErrBusy)

	// A different user is not blocked
	_, err = ws.AddProduct(ctx, &domain.User{ID: "u2"}, domain.AddProductRequest{ImageData: "ghi"})
	assert.NoError(t, err)

	close(analyzer.block)
	require.NoError(t, <-done)

	products, err := ws.Products(user)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestWorkspace_Compare(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: "u1"}

	t.Run("single product is rejected without side effects", func(t *testing.T) {
		ws, analyzer := newTestWorkspace(5)
		_, err := ws.AddProduct(ctx, user, domain.AddProductRequest{ImageData: "abc"})
		require.NoError(t, err)

		_, err = ws.Compare(ctx, user)
		assert.ErrorIs(t, err, domain.ErrInsufficientProducts)
		assert.Zero(t, analyzer.compareCalls)

		_, err = ws.LastComparison(user)
		assert.ErrorIs(t, err, domain.ErrComparisonNotFound)
	})

	t.Run("stores and invalidates last comparison", func(t *testing.T) {
		ws, _ := newTestWorkspace(5)
		first, err := ws.AddProduct(ctx, user, domain.AddProductRequest{ImageData: "abc"})
		require.NoError(t, err)
		_, err = ws.AddProduct(ctx, user, domain.AddProductRequest{ImageData: "def"})
		require.NoError(t, err)

		result, err := ws.Compare(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, first.ID, result.Winner.ID)

		last, err := ws.LastComparison(user)
		require.NoError(t, err)
		assert.Equal(t, result, last)

		require.NoError(t, ws.RemoveProduct(user, first.ID))
		_, err = ws.LastComparison(user)
		assert.ErrorIs(t, err, domain.ErrComparisonNotFound)
	})
}

func TestWorkspace_CompareMatchesCurrentProducts(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: "u1"}
	ws, _ := newTestWorkspace(100)

	for i := 0; i < 2; i++ {
		_, err := ws.AddProduct(ctx, user, domain.AddProductRequest{ImageData: "abc"})
		require.NoError(t, err)
	}

	// Adds and compares race; busy rejections are expected and ignored
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = ws.AddProduct(ctx, user, domain.AddProductRequest{ImageData: "abc"})
		}()
		go func() {
			defer wg.Done()
			_, _ = ws.Compare(ctx, user)
		}()
	}
	wg.Wait()

	products, err := ws.Products(user)
	require.NoError(t, err)

	last, err := ws.LastComparison(user)
	if err != nil {
		assert.ErrorIs(t, err, domain.ErrComparisonNotFound)
		return
	}
	assert.Equal(t, productIDs(products), productIDs(last.Products))
}

func productIDs(products []domain.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

func TestWorkspace_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: "u1"}
	ws, _ := newTestWorkspace(5)

	p, err := ws.AddProduct(ctx, user, domain.AddProductRequest{ImageData: "abc"})
	require.NoError(t, err)

	assert.ErrorIs(t, ws.RemoveProduct(user, "missing"), domain.ErrProductNotFound)
	require.NoError(t, ws.RemoveProduct(user, p.ID))

	_, err = ws.Image(user, p.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = ws.AddProduct(ctx, user, domain.AddProductRequest{ImageData: "abc"})
	require.NoError(t, err)
	require.NoError(t, ws.Clear(user))

	products, err := ws.Products(user)
	require.NoError(t, err)
	assert.Empty(t, products)
}
