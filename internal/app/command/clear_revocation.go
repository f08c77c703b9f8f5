package command

import (
	"context"

	"github.com/google/uuid"

	domainerror "github.com/0xsj/aegis/internal/domain/error"
	"github.com/0xsj/aegis/internal/domain/event"
	"github.com/0xsj/aegis/internal/port/inbound/command"
	"github.com/0xsj/aegis/internal/port/outbound/cache"
	"github.com/0xsj/aegis/internal/port/outbound/messaging"
)

// clearRevocationHandler implements command.ClearRevocationHandler.
type clearRevocationHandler struct {
	store     cache.RevocationStore
	publisher messaging.EventPublisher
}

// NewClearRevocationHandler creates a new ClearRevocationHandler.
func NewClearRevocationHandler(
	store cache.RevocationStore,
	publisher messaging.EventPublisher,
) command.ClearRevocationHandler {
	return &clearRevocationHandler{
		store:     store,
		publisher: publisher,
	}
}

func (h *clearRevocationHandler) Handle(ctx context.Context, cmd command.ClearRevocation) (command.ClearRevocationResult, error) {
	if cmd.UserID == uuid.Nil {
		return command.ClearRevocationResult{}, domainerror.ErrUserIDRequired
	}

	if err := h.store.Clear(ctx, cmd.UserID); err != nil {
		return command.ClearRevocationResult{}, err
	}

	_ = h.publisher.Publish(ctx, event.NewRevocationCleared(cmd.UserID, cmd.Actor))

	return command.ClearRevocationResult{}, nil
}
