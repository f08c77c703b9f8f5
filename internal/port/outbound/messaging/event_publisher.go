package messaging

import (
	"context"

	"github.com/0xsj/aegis/internal/domain/event"
)

// EventPublisher defines the interface for publishing domain events.
// Revocation and account-mutation events double as the audit trail.
type EventPublisher interface {
	// Publish publishes a single event.
	Publish(ctx context.Context, evt event.Event) error

	// PublishAll publishes multiple events.
	PublishAll(ctx context.Context, events []event.Event) error
}
