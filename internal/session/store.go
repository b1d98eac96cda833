// Package session implements the token store: the single source of truth for
// the current bearer token and cached user profile. Tokens are opaque and
// trusted until the API rejects them; there is no expiry tracking or refresh.
package session

import (
	"errors"

	"github.com/nutriwell/go-admin/pkg/interfaces"
)

// DefaultSlot is the record key used when a host manages a single operator
// session, which is the common case for a local console.
const DefaultSlot = "default"

var (
	// ErrStoreUnavailable reports that the persistent backing could not be
	// reached.
	ErrStoreUnavailable = errors.New("session: store unavailable")
)

// Store aliases the public token store contract.
type Store = interfaces.TokenStore

// Profile aliases the cached user profile blob.
type Profile = interfaces.Profile
