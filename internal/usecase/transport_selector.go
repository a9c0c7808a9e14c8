package usecase

import (
	"context"
	"fmt"

	"github.com/labelwise/backend/internal/domain"
	"go.uber.org/zap"
)

// SelectorConfig holds the flags that decide how analysis calls are routed
type SelectorConfig struct {
	UseMockData bool
	UseLocalAPI bool
	LocalAPIKey string
}

// TransportSelector routes each analysis call to mock data, the provider
// directly, or the server-side proxy. It never retries.
type TransportSelector struct {
	config SelectorConfig
	direct domain.VisionClient
	proxy  domain.AnalysisProxy
	logger *zap.Logger
}

// NewTransportSelector creates a selector. direct may be nil when the local
// API is not configured.
func NewTransportSelector(
	config SelectorConfig,
	direct domain.VisionClient,
	proxy domain.AnalysisProxy,
	logger *zap.Logger,
) *TransportSelector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransportSelector{
		config: config,
		direct: direct,
		proxy:  proxy,
		logger: logger,
	}
}

// Mode reports the transport used for the next call
func (s *TransportSelector) Mode() domain.Source {
	switch {
	case s.config.UseMockData:
		return domain.SourceMock
	case s.config.UseLocalAPI && s.config.LocalAPIKey != "" && s.direct != nil:
		return domain.SourceDirect
	default:
		return domain.SourceProxy
	}
}

// Fetch makes a single remote attempt on the selected path and returns the
// raw model text. In mock mode nothing is attempted and an error is returned.
func (s *TransportSelector) Fetch(ctx context.Context, prompt string, req domain.ImageRequest) (string, domain.Source, error) {
	mode := s.Mode()

	switch mode {
	case domain.SourceDirect:
		s.logger.Debug("using local API for analysis", zap.String("product", req.ProductName))
		text, err := s.direct.Generate(ctx, prompt, req.ImageData)
		if err != nil {
			return "", mode, fmt.Errorf("direct call: %w", err)
		}
		return text, mode, nil

	case domain.SourceProxy:
		if s.proxy == nil {
			return "", mode, fmt.Errorf("%w: no proxy configured", domain.ErrProxyFailure)
		}
		text, err := s.proxy.Analyze(ctx, req)
		if err != nil {
			return "", mode, fmt.Errorf("proxy call: %w", err)
		}
		return text, mode, nil

	default:
		return "", mode, fmt.Errorf("mock mode enabled: no remote transport")
	}
}
