package idp

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// IssuedToken is a fresh bearer credential minted by the identity provider.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// IdentityProvider defines the boundary to the external token authority.
// Killing the provider's own session list and killing this service's
// independently cached bearer-token validity are two distinct problems; the
// trigger handlers address both in parallel.
type IdentityProvider interface {
	// InvalidateSessions tells the provider to invalidate all of its
	// server-side sessions for the user.
	InvalidateSessions(ctx context.Context, userID uuid.UUID) error

	// IssueToken asks the provider for a fresh bearer token for the user.
	// Used by endpoints that revoke and then re-authenticate the caller.
	IssueToken(ctx context.Context, userID uuid.UUID) (IssuedToken, error)
}
