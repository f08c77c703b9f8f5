package messaging

import (
	"github.com/0xsj/aegis/internal/domain/event"
)

// Topic names for account-security events.
const (
	TopicUserEvents       = "account.user"
	TopicRevocationEvents = "account.revocation"
	TopicWebhookEvents    = "account.webhook"
)

// TopicForEvent returns the appropriate topic for an event type.
func TopicForEvent(evt event.Event) string {
	switch evt.AggregateType() {
	case event.AggregateTypeRevocation:
		return TopicRevocationEvents
	case event.AggregateTypeWebhook:
		return TopicWebhookEvents
	default:
		return TopicUserEvents
	}
}
