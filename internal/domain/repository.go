package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// VisionClient sends a prompt plus a label image straight to the AI provider
// and returns the model's text.
type VisionClient interface {
	Generate(ctx context.Context, prompt, imageData string) (string, error)
}

// AnalysisProxy calls the server-side proxy that holds the provider credential.
type AnalysisProxy interface {
	Analyze(ctx context.Context, req ImageRequest) (string, error)
}

// IdentityProvider resolves opaque access tokens.
type IdentityProvider interface {
	UserInfo(ctx context.Context, accessToken string) (*User, error)
	TokenInfo(ctx context.Context, accessToken string) (*TokenInfo, error)
}

// Scorer synthesizes placeholder scores when no real signal is available.
// Implementations return a value in [20, 80).
type Scorer interface {
	PlaceholderScore() int
}
