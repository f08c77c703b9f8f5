package event

import (
	"github.com/google/uuid"

	"github.com/0xsj/aegis/internal/domain/model"
)

// RevocationCreated is emitted when a revocation record is written for a user.
// Metadata carries the audit bag (originating IP, user agent, actor); it is
// never consulted for authorization decisions.
type RevocationCreated struct {
	BaseEvent
	UserID   uuid.UUID
	Reason   model.RevocationReason
	Scope    model.RevocationScope
	Metadata map[string]string
}

// NewRevocationCreated creates a new RevocationCreated event.
func NewRevocationCreated(
	userID uuid.UUID,
	reason model.RevocationReason,
	scope model.RevocationScope,
	metadata map[string]string,
) RevocationCreated {
	return RevocationCreated{
		BaseEvent: NewBaseEvent(EventTypeRevocationCreated, userID, AggregateTypeRevocation),
		UserID:    userID,
		Reason:    reason,
		Scope:     scope,
		Metadata:  metadata,
	}
}

// RevocationCleared is emitted when an administrative clear removes a record.
type RevocationCleared struct {
	BaseEvent
	UserID uuid.UUID
	Actor  string
}

// NewRevocationCleared creates a new RevocationCleared event.
func NewRevocationCleared(userID uuid.UUID, actor string) RevocationCleared {
	return RevocationCleared{
		BaseEvent: NewBaseEvent(EventTypeRevocationCleared, userID, AggregateTypeRevocation),
		UserID:    userID,
		Actor:     actor,
	}
}

// WebhookRejected is emitted when an inbound identity event fails its
// authenticity check. Logged and published as a potential security probe.
type WebhookRejected struct {
	BaseEvent
	RemoteAddr string
	Cause      string
}

// NewWebhookRejected creates a new WebhookRejected event.
func NewWebhookRejected(remoteAddr, cause string) WebhookRejected {
	return WebhookRejected{
		BaseEvent:  NewBaseEvent(EventTypeWebhookRejected, uuid.New(), AggregateTypeWebhook),
		RemoteAddr: remoteAddr,
		Cause:      cause,
	}
}
