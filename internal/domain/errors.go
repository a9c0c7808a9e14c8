package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnauthenticated is returned when no signed-in user is present
	ErrUnauthenticated = errors.New("authentication required")

	// ErrInsufficientProducts is returned when fewer than two products are compared
	ErrInsufficientProducts = errors.New("at least 2 products are required to compare")

	// ErrProductNotFound is returned when a product is not in the working set
	ErrProductNotFound = errors.New("product not found")

	// ErrComparisonNotFound is returned when no comparison has been run yet
	ErrComparisonNotFound = errors.New("no comparison available")

	// ErrWorkspaceFull is returned when the working set is at capacity
	ErrWorkspaceFull = errors.New("product limit reached")

	// ErrBusy is returned while another operation is outstanding for the same user
	ErrBusy = errors.New("another analysis is already in progress")

	// ErrNoIngredients is returned when no ingredient list can be found in model output
	ErrNoIngredients = errors.New("no ingredients found in analysis")

	// ErrEmptyResponse is returned when the provider answered with no text
	ErrEmptyResponse = errors.New("empty response from provider")

	// ErrProviderFailure is returned when the AI provider request fails
	ErrProviderFailure = errors.New("AI provider request failed")

	// ErrProxyFailure is returned when the analysis proxy request fails
	ErrProxyFailure = errors.New("analysis proxy request failed")

	// ErrMissingCredential is returned when a provider API key is not configured
	ErrMissingCredential = errors.New("API key not configured")

	// ErrIdentityFailure is returned when the identity provider rejects a token
	ErrIdentityFailure = errors.New("identity provider request failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrNotAnImage is returned when supplied bytes are not a recognizable image
	ErrNotAnImage = errors.New("file is not an image")
)
