package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/labelwise/backend/internal/domain"
	"go.uber.org/zap"
)

// LocalUser is the signed-in user when authentication is not required
var LocalUser = domain.User{
	ID:    "local",
	Name:  "Local User",
	Email: "local@localhost",
}

// IdentityServiceConfig holds configuration for the identity service
type IdentityServiceConfig struct {
	Required bool
	CacheTTL time.Duration
}

// IdentityService turns access tokens into users, caching lookups so the
// identity provider is hit at most once per token per TTL.
type IdentityService struct {
	provider domain.IdentityProvider
	cache    domain.CacheRepository
	required bool
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewIdentityService creates a new identity service with dependencies
func NewIdentityService(
	provider domain.IdentityProvider,
	cache domain.CacheRepository,
	config IdentityServiceConfig,
	logger *zap.Logger,
) *IdentityService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &IdentityService{
		provider: provider,
		cache:    cache,
		required: config.Required,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// ResolveUser looks up the user behind an access token.
// Flow: no token -> local user or ErrUnauthenticated; cache -> provider -> cache
func (s *IdentityService) ResolveUser(ctx context.Context, accessToken string) (*domain.User, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		if s.required {
			return nil, domain.ErrUnauthenticated
		}
		user := LocalUser
		return &user, nil
	}

	if s.provider == nil {
		return nil, fmt.Errorf("%w: no identity provider configured", domain.ErrIdentityFailure)
	}

	cacheKey := identityCacheKey(accessToken)
	if user, err := s.getFromCache(ctx, cacheKey); err == nil {
		return user, nil
	}

	user, err := s.provider.UserInfo(ctx, accessToken)
	if err != nil {
		s.logger.Info("access token rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, user, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache user", zap.Error(err))
		}
	}

	return user, nil
}

func (s *IdentityService) getFromCache(ctx context.Context, key string) (*domain.User, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case *domain.User:
		return v, nil
	case map[string]interface{}:
		// MemoryCache stores values JSON-normalized
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, domain.ErrCacheMiss
		}
		var user domain.User
		if err := json.Unmarshal(raw, &user); err != nil || user.ID == "" {
			return nil, domain.ErrCacheMiss
		}
		return &user, nil
	default:
		return nil, domain.ErrCacheMiss
	}
}

// identityCacheKey hashes the token so raw credentials never become map keys.
// Format: "identity:{sha256_hex}"
func identityCacheKey(accessToken string) string {
	sum := sha256.Sum256([]byte(accessToken))
	return "identity:" + hex.EncodeToString(sum[:])
}
