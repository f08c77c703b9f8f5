package command

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Identity provider event types accepted at the webhook boundary.
const (
	IdentityEventUpdated = "identity.updated"
	IdentityEventDeleted = "identity.deleted"
)

// ProcessIdentityEvent reacts to an identity-provider-originated change that
// did not pass through this service's own endpoints. The webhook receiver has
// already verified authenticity and schema by the time this command runs.
type ProcessIdentityEvent struct {
	EventID       string
	EventType     string
	UserID        uuid.UUID
	ChangedFields []string
	Timestamp     time.Time
}

func (c ProcessIdentityEvent) CommandName() string {
	return "webhook.process_identity_event"
}

// ProcessIdentityEventResult reports whether the event produced a revocation.
type ProcessIdentityEventResult struct {
	Revoked bool
}

// ProcessIdentityEventHandler handles the ProcessIdentityEvent command.
type ProcessIdentityEventHandler interface {
	Handle(ctx context.Context, cmd ProcessIdentityEvent) (ProcessIdentityEventResult, error)
}
