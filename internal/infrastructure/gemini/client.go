package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/labelwise/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultEndpoint is the generateContent URL of the vision model
const DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash-latest:generateContent"

// maxErrorBody bounds how much of a failed response is kept in errors
const maxErrorBody = 512

// Options tunes the client; zero values fall back to defaults
type Options struct {
	Timeout       time.Duration
	RatePerMinute int
	Logger        *zap.Logger
}

// Client handles communication with the Gemini generateContent API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	endpoint    string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a new Gemini API client
func NewClient(apiKey, endpoint string, opts Options) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	// Free tier allows 15 requests per minute
	perMinute := opts.RatePerMinute
	if perMinute <= 0 {
		perMinute = 15
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:      apiKey,
		endpoint:    endpoint,
		rateLimiter: limiter,
		logger:      logger.Named("gemini"),
	}
}

// Generate sends the prompt and label image and returns the first candidate's text.
// A single attempt is made.
func (c *Client) Generate(ctx context.Context, prompt, imageData string) (string, error) {
	if c.apiKey == "" {
		return "", domain.ErrMissingCredential
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	payload, err := json.Marshal(BuildRequest(prompt, imageData))
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", domain.ErrProviderFailure, err)
	}

	var genResp domain.GenerateContentResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("%w: status %d: %s", domain.ErrProviderFailure, resp.StatusCode, truncate(body))
		}
		return "", fmt.Errorf("%w: failed to decode response: %v", domain.ErrProviderFailure, err)
	}

	if genResp.Error != nil {
		c.logger.Warn("API error",
			zap.Int("status", resp.StatusCode),
			zap.String("message", genResp.Error.Message))
		return "", fmt.Errorf("%w: Gemini API error: %s", domain.ErrProviderFailure, genResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrProviderFailure, resp.StatusCode, truncate(body))
	}

	text, err := ExtractText(&genResp)
	if err != nil {
		return "", err
	}

	c.logger.Debug("generated content", zap.Int("chars", len(text)))
	return text, nil
}

// doRequest executes the POST with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, payload []byte) (*http.Response, error) {
	reqURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	params := reqURL.Query()
	params.Set("key", c.apiKey)
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Labelwise/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The request URL carries the key; keep it out of errors
		if urlErr, ok := err.(*url.Error); ok {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("%w: request failed: %v", domain.ErrProviderFailure, err)
	}

	return resp, nil
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}
