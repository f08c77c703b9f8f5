package query

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/0xsj/aegis/internal/domain/model"
)

// GetSecurityStatus reports whether the caller's own identity currently has
// an active revocation, and why. Backs the self-service "why was I logged
// out" surface; this is the one read path allowed to expose the reason.
type GetSecurityStatus struct {
	UserID uuid.UUID
}

// GetSecurityStatusResult describes the caller's revocation state.
type GetSecurityStatusResult struct {
	Revoked   bool
	Reason    model.RevocationReason
	Scope     model.RevocationScope
	CreatedAt time.Time
	ExpiresAt time.Time // zero for permanent scope or no revocation
}

// GetSecurityStatusHandler handles the GetSecurityStatus query.
type GetSecurityStatusHandler interface {
	Handle(ctx context.Context, q GetSecurityStatus) (GetSecurityStatusResult, error)
}
