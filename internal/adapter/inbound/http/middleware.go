package http

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/0xsj/aegis/internal/app/service"
	"github.com/0xsj/aegis/internal/domain/model"
	"github.com/0xsj/aegis/internal/metrics"
	"github.com/0xsj/aegis/internal/port/outbound/cache"
)

// FailurePolicy decides what happens to authenticated requests when the
// revocation store cannot be reached. There is no implicit default: the
// deployment must pick one.
type FailurePolicy string

const (
	// FailOpen admits requests with a valid token signature when the store
	// is down. Availability over strictness.
	FailOpen FailurePolicy = "fail_open"

	// FailClosed rejects all authenticated requests when the store is down.
	FailClosed FailurePolicy = "fail_closed"
)

// IsValid reports whether the policy is one of the two recognized values.
func (p FailurePolicy) IsValid() bool {
	return p == FailOpen || p == FailClosed
}

// SessionCookieName is the cookie carrying the access token for browser
// clients. The Authorization header takes precedence when both are present.
const SessionCookieName = "aegis_session"

// Enforcement is the middleware guarding every authenticated route. Signature
// validation alone is not sufficient to admit a request: the revocation store
// is consulted on every request, after claims validation and before any
// handler runs.
type Enforcement struct {
	tokens       service.TokenService
	store        cache.RevocationStore
	policy       FailurePolicy
	checkTimeout time.Duration
	logger       *zap.Logger
}

// NewEnforcement creates the enforcement middleware.
func NewEnforcement(tokens service.TokenService, store cache.RevocationStore, policy FailurePolicy, checkTimeout time.Duration, logger *zap.Logger) *Enforcement {
	if checkTimeout <= 0 {
		checkTimeout = 100 * time.Millisecond
	}
	return &Enforcement{
		tokens:       tokens,
		store:        store,
		policy:       policy,
		checkTimeout: checkTimeout,
		logger:       logger,
	}
}

// Middleware validates the bearer token, consults the revocation store, and
// either rejects the request or attaches an AuthContext for downstream
// handlers. Rejected requests get the same generic response regardless of
// cause so callers cannot distinguish a revoked session from a bad token.
func (e *Enforcement) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractToken(r)
		if !ok {
			writeUnauthorized(w)
			return
		}

		claims, err := e.tokens.ValidateAccessToken(token)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		ac := &AuthContext{Claims: claims}

		checkCtx, cancel := context.WithTimeout(r.Context(), e.checkTimeout)
		record, err := e.store.GetDetails(checkCtx, claims.UserID)
		cancel()

		switch {
		case err != nil:
			metrics.RevocationChecksTotal.WithLabelValues(metrics.CheckResultError).Inc()
			e.logger.Error("revocation check failed",
				zap.String("user_id", claims.UserID.String()),
				zap.String("policy", string(e.policy)),
				zap.Error(err),
			)
			if e.policy == FailClosed {
				writeUnauthorized(w)
				return
			}
			ac.StoreDegraded = true

		case rejectedByRecord(record, claims, time.Now().UTC()):
			metrics.RevocationChecksTotal.WithLabelValues(metrics.CheckResultRevoked).Inc()
			writeUnauthorized(w)
			return

		default:
			metrics.RevocationChecksTotal.WithLabelValues(metrics.CheckResultAllowed).Inc()
		}

		next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), ac)))
	})
}

// rejectedByRecord decides whether a revocation record kills this request.
// A permanent record rejects every token. A temporary record rejects tokens
// issued before the record was created; a token minted after the revocation
// (the fresh credential handed back by revoke-then-reauthenticate endpoints,
// or a new login) passes. Record timestamps carry second precision, so a
// token minted in the same second as the revocation is admitted; that race
// is bounded and accepted.
func rejectedByRecord(record *model.RevocationRecord, claims *service.AccessTokenClaims, now time.Time) bool {
	if record == nil || !record.Covers(now) {
		return false
	}
	if record.IsPermanent() {
		return true
	}
	// Token issue times carry second precision; align the record before
	// comparing.
	return claims.IssuedAt.Before(record.CreatedAt().Truncate(time.Second))
}

// extractToken pulls the access token from the Authorization header, falling
// back to the session cookie for browser clients.
func extractToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			return "", false
		}
		token := strings.TrimSpace(header[len(prefix):])
		return token, token != ""
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "session invalid"})
}

// AdminAuth guards administrative routes with a static token compared in
// constant time.
type AdminAuth struct {
	token  string
	logger *zap.Logger
}

// NewAdminAuth creates the administrative token middleware.
func NewAdminAuth(token string, logger *zap.Logger) *AdminAuth {
	return &AdminAuth{
		token:  token,
		logger: logger,
	}
}

func (a *AdminAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.token == "" {
			a.logger.Warn("admin route hit with no admin token configured",
				zap.String("path", r.URL.Path),
			)
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
			return
		}

		presented := r.Header.Get("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(presented), []byte(a.token)) != 1 {
			a.logger.Warn("admin authentication failed",
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Metrics records request latency per chi route pattern and status code.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		// The route pattern is only known after routing, so it is read
		// after the handler runs. Unmatched requests fall back to the path.
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(route, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}
