package command

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainerror "github.com/0xsj/aegis/internal/domain/error"
	"github.com/0xsj/aegis/internal/domain/event"
	"github.com/0xsj/aegis/internal/domain/model"
	"github.com/0xsj/aegis/internal/port/inbound/command"
	"github.com/0xsj/aegis/internal/port/outbound/idp"
	"github.com/0xsj/aegis/internal/port/outbound/messaging"
	"github.com/0xsj/aegis/internal/port/outbound/repository"
)

// deleteAccountHandler implements command.DeleteAccountHandler.
type deleteAccountHandler struct {
	userRepo  repository.UserRepository
	writer    *RevocationWriter
	provider  idp.IdentityProvider
	publisher messaging.EventPublisher
	logger    *zap.Logger
}

// NewDeleteAccountHandler creates a new DeleteAccountHandler.
func NewDeleteAccountHandler(
	userRepo repository.UserRepository,
	writer *RevocationWriter,
	provider idp.IdentityProvider,
	publisher messaging.EventPublisher,
	logger *zap.Logger,
) command.DeleteAccountHandler {
	return &deleteAccountHandler{
		userRepo:  userRepo,
		writer:    writer,
		provider:  provider,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *deleteAccountHandler) Handle(ctx context.Context, cmd command.DeleteAccount) (command.DeleteAccountResult, error) {
	if cmd.UserID == uuid.Nil {
		return command.DeleteAccountResult{}, domainerror.ErrUserIDRequired
	}

	// Deletion commits first, then the permanent revocation is asserted.
	if err := h.userRepo.Delete(ctx, cmd.UserID); err != nil {
		return command.DeleteAccountResult{}, err
	}

	metadata := AuditMetadata(cmd.ClientIP, cmd.UserAgent, cmd.UserID.String())
	_ = h.writer.RevokePermanent(ctx, cmd.UserID, model.ReasonAccountDeletion, metadata)

	if err := h.provider.InvalidateSessions(ctx, cmd.UserID); err != nil {
		h.logger.Error("failed to invalidate provider sessions",
			zap.String("user_id", cmd.UserID.String()),
			zap.Error(err),
		)
	}

	_ = h.publisher.Publish(ctx, event.NewUserDeleted(cmd.UserID))

	return command.DeleteAccountResult{}, nil
}
