package http

import (
	"context"

	"github.com/0xsj/aegis/internal/app/service"
)

type contextKey string

const authContextKey contextKey = "auth_context"

// AuthContext is the ephemeral per-request authentication state produced by
// the enforcement middleware: the validated token claims plus the outcome of
// the revocation check. It lives only for the duration of request handling.
type AuthContext struct {
	Claims *service.AccessTokenClaims

	// StoreDegraded is set when the revocation store was unreachable and
	// the configured failure policy let the request proceed unchecked.
	StoreDegraded bool
}

// WithAuthContext returns a context carrying the authenticated identity.
func WithAuthContext(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, ac)
}

// AuthContextFrom extracts the authenticated identity from the context.
func AuthContextFrom(ctx context.Context) (*AuthContext, bool) {
	ac, ok := ctx.Value(authContextKey).(*AuthContext)
	return ac, ok
}
