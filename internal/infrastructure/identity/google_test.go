package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labelwise/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("", "", 0)

	assert.Equal(t, DefaultUserInfoURL, client.userInfoURL)
	assert.Equal(t, DefaultTokenInfoURL, client.tokenInfoURL)
	assert.NotNil(t, client.httpClient)
}

func TestUserInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"code":401}}`))
			return
		}
		w.Write([]byte(`{"id":"1089","email":"a@example.com","name":"Ann","picture":"https://example.com/a.png"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 0)

	t.Run("valid token", func(t *testing.T) {
		user, err := client.UserInfo(context.Background(), "good")
		require.NoError(t, err)
		assert.Equal(t, &domain.User{
			ID:      "1089",
			Name:    "Ann",
			Email:   "a@example.com",
			Picture: "https://example.com/a.png",
		}, user)
	})

	t.Run("rejected token", func(t *testing.T) {
		_, err := client.UserInfo(context.Background(), "bad")
		assert.ErrorIs(t, err, domain.ErrIdentityFailure)
		assert.Contains(t, err.Error(), "status 401")
	})
}

func TestTokenInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok", r.URL.Query().Get("access_token"))
		w.Write([]byte(`{"email":"a@example.com","aud":"client-id","expires_in":"3599","scope":"openid email"}`))
	}))
	defer server.Close()

	info, err := NewClient("", server.URL, 0).TokenInfo(context.Background(), "tok")

	require.NoError(t, err)
	assert.Equal(t, "a@example.com", info.Email)
	assert.Equal(t, "client-id", info.Audience)
	assert.Equal(t, "3599", info.ExpiresIn)
}
