package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/0xsj/aegis/internal/domain/model"
)

// RevocationStore defines the interface for the centralized revocation store.
// One record exists per user. Only trigger handlers write, only the
// enforcement middleware and diagnostic surfaces read, and only the
// administrative Clear deletes.
type RevocationStore interface {
	// Revoke upserts a temporary record with the configured revocation window.
	// Idempotent: a repeated call resets the window. A call against a user
	// with an existing permanent record is a no-op that still succeeds.
	Revoke(ctx context.Context, userID uuid.UUID, reason model.RevocationReason, metadata map[string]string) error

	// RevokePermanently upserts a permanent record with no TTL. The record
	// survives until an explicit Clear.
	RevokePermanently(ctx context.Context, userID uuid.UUID, reason model.RevocationReason, metadata map[string]string) error

	// IsRevoked reports whether a still-effective record exists for the user.
	IsRevoked(ctx context.Context, userID uuid.UUID) (bool, error)

	// GetDetails returns the user's record, or nil when none exists. Runs
	// on every authenticated request's hot path; also backs diagnostics
	// and the self-service security-status surface.
	GetDetails(ctx context.Context, userID uuid.UUID) (*model.RevocationRecord, error)

	// Clear removes any record for the user immediately, regardless of scope.
	// Administrative and test use only.
	Clear(ctx context.Context, userID uuid.UUID) error
}
