package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/labelwise/backend/internal/domain"
)

// Google OAuth endpoints
const (
	DefaultUserInfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
	DefaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
)

// userInfoResponse mirrors the userinfo v2 payload
type userInfoResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Client resolves Google access tokens
type Client struct {
	httpClient   *http.Client
	userInfoURL  string
	tokenInfoURL string
}

// NewClient creates a new Google identity client. Empty URLs use the
// public Google endpoints.
func NewClient(userInfoURL, tokenInfoURL string, timeout time.Duration) *Client {
	if userInfoURL == "" {
		userInfoURL = DefaultUserInfoURL
	}
	if tokenInfoURL == "" {
		tokenInfoURL = DefaultTokenInfoURL
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userInfoURL:  userInfoURL,
		tokenInfoURL: tokenInfoURL,
	}
}

// UserInfo fetches the profile of the token's owner
func (c *Client) UserInfo(ctx context.Context, accessToken string) (*domain.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var info userInfoResponse
	if err := c.do(req, &info); err != nil {
		return nil, err
	}
	if info.ID == "" {
		return nil, fmt.Errorf("%w: userinfo response has no id", domain.ErrIdentityFailure)
	}

	return &domain.User{
		ID:      info.ID,
		Name:    info.Name,
		Email:   info.Email,
		Picture: info.Picture,
	}, nil
}

// TokenInfo introspects the token
func (c *Client) TokenInfo(ctx context.Context, accessToken string) (*domain.TokenInfo, error) {
	reqURL, err := url.Parse(c.tokenInfoURL)
	if err != nil {
		return nil, fmt.Errorf("invalid tokeninfo URL: %w", err)
	}
	params := reqURL.Query()
	params.Set("access_token", accessToken)
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var info domain.TokenInfo
	if err := c.do(req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if urlErr, ok := err.(*url.Error); ok {
			err = urlErr.Err
		}
		return fmt.Errorf("%w: %v", domain.ErrIdentityFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", domain.ErrIdentityFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", domain.ErrIdentityFailure, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrIdentityFailure, err)
	}
	return nil
}
