package interfaces

import "context"

// Profile is the user profile blob cached next to the bearer token. The API
// owns the shape; the console only ever round-trips it.
type Profile struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// TokenStore is the single source of truth for the current bearer token and
// cached profile. Tokens are opaque: the store never inspects or refreshes
// them, a token is trusted until the API rejects it.
type TokenStore interface {
	// Token returns the stored bearer token, or "" when none is set.
	Token(ctx context.Context) (string, error)
	// SetToken persists the token and profile, overwriting previous values.
	SetToken(ctx context.Context, token string, profile *Profile) error
	// Clear removes both the token and the profile (logout).
	Clear(ctx context.Context) error
	// Profile returns the cached profile, or nil when none is stored.
	Profile(ctx context.Context) (*Profile, error)
}
