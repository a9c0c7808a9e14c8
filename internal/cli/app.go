package cli

import (
	"github.com/labelwise/backend/config"
	httpDelivery "github.com/labelwise/backend/internal/delivery/http"
	"github.com/labelwise/backend/internal/domain"
	"github.com/labelwise/backend/internal/infrastructure/cache"
	"github.com/labelwise/backend/internal/infrastructure/gemini"
	"github.com/labelwise/backend/internal/infrastructure/identity"
	"github.com/labelwise/backend/internal/infrastructure/proxy"
	"github.com/labelwise/backend/internal/usecase"
	"go.uber.org/zap"
)

// app is the wired object graph shared by the commands
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	cache     *cache.MemoryCache
	analysis  *usecase.AnalysisService
	workspace *usecase.Workspace
	identity  *usecase.IdentityService
	proxy     *httpDelivery.ProxyHandler
}

func newApp(cfg *config.Config, logger *zap.Logger) *app {
	memory := cache.NewMemoryCache(cfg.Cache.CleanupInterval)

	geminiOpts := gemini.Options{
		Timeout:       cfg.Gemini.Timeout,
		RatePerMinute: cfg.Gemini.RatePerMinute,
		Logger:        logger,
	}

	// Direct path, used only when the local API is switched on with a key
	var direct domain.VisionClient
	if cfg.Analysis.UseLocalAPI && cfg.Analysis.LocalAPIKey != "" {
		direct = gemini.NewClient(cfg.Analysis.LocalAPIKey, cfg.Gemini.Endpoint, geminiOpts)
	}

	selector := usecase.NewTransportSelector(
		usecase.SelectorConfig{
			UseMockData: cfg.Analysis.UseMockData,
			UseLocalAPI: cfg.Analysis.UseLocalAPI,
			LocalAPIKey: cfg.Analysis.LocalAPIKey,
		},
		direct,
		proxy.NewClient(cfg.Proxy.URL, cfg.Proxy.Timeout, logger),
		logger,
	)

	analysis := usecase.NewAnalysisService(
		selector,
		usecase.NewRandomScorer(),
		usecase.AnalysisServiceConfig{MockDelay: cfg.Analysis.MockDelay},
		logger,
	)

	workspace := usecase.NewWorkspace(
		analysis,
		usecase.WorkspaceConfig{MaxProducts: cfg.Analysis.MaxProducts},
		logger,
	)

	google := identity.NewClient(cfg.Auth.UserInfoURL, cfg.Auth.TokenInfoURL, cfg.Auth.Timeout)
	identitySvc := usecase.NewIdentityService(
		google,
		memory,
		usecase.IdentityServiceConfig{
			Required: cfg.Auth.Required,
			CacheTTL: cfg.Auth.CacheTTL,
		},
		logger,
	)

	// Server-side credential for the proxy endpoint
	var generator domain.VisionClient
	if cfg.Gemini.APIKey != "" {
		generator = gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Endpoint, geminiOpts)
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		cache:     memory,
		analysis:  analysis,
		workspace: workspace,
		identity:  identitySvc,
		proxy:     httpDelivery.NewProxyHandler(generator, google, memory, cfg.Cache.TTL, logger),
	}
}

func (a *app) close() {
	a.cache.Close()
	_ = a.logger.Sync()
}
