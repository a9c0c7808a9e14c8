package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labelwise/backend/internal/domain"
	"go.uber.org/zap"
)

// DefaultPath is where the analysis proxy is mounted
const DefaultPath = "/functions/analyze-ingredients"

// Client calls the analysis proxy that holds the provider credential
type Client struct {
	httpClient *http.Client
	url        string
	logger     *zap.Logger
}

// NewClient creates a new proxy client for the given endpoint URL
func NewClient(url string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url:    url,
		logger: logger.Named("proxy"),
	}
}

// Analyze posts the image to the proxy and returns the model text.
// The proxy always runs its own analysis prompt.
func (c *Client) Analyze(ctx context.Context, req domain.ImageRequest) (string, error) {
	payload, err := json.Marshal(domain.ProxyRequest{
		ImageData:   req.ImageData,
		ProductName: req.ProductName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.AccessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.AccessToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProxyFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", domain.ErrProxyFailure, err)
	}

	var proxyResp domain.ProxyResponse
	if err := json.Unmarshal(body, &proxyResp); err != nil {
		return "", fmt.Errorf("%w: status %d: failed to decode response: %v", domain.ErrProxyFailure, resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || proxyResp.Error != "" {
		c.logger.Warn("proxy returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("error", proxyResp.Error),
			zap.String("message", proxyResp.Message))
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrProxyFailure, resp.StatusCode, describe(proxyResp))
	}

	if proxyResp.Analysis == "" {
		return "", fmt.Errorf("%w: %w", domain.ErrProxyFailure, domain.ErrEmptyResponse)
	}

	return proxyResp.Analysis, nil
}

func describe(resp domain.ProxyResponse) string {
	switch {
	case resp.Error != "" && resp.Message != "":
		return resp.Error + ": " + resp.Message
	case resp.Error != "":
		return resp.Error
	default:
		return "no analysis returned"
	}
}
