package domain

// User is the signed-in identity supplied by the identity provider.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}

// TokenInfo is the subset of the provider's token introspection we log.
type TokenInfo struct {
	Email     string `json:"email"`
	Audience  string `json:"aud"`
	ExpiresIn string `json:"expires_in"`
	Scope     string `json:"scope"`
	Error     string `json:"error,omitempty"`
}
