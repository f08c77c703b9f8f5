package command

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainerror "github.com/0xsj/aegis/internal/domain/error"
	"github.com/0xsj/aegis/internal/domain/model"
	"github.com/0xsj/aegis/internal/port/inbound/command"
	"github.com/0xsj/aegis/internal/port/outbound/idp"
)

// logoutEverywhereHandler implements command.LogoutEverywhereHandler.
type logoutEverywhereHandler struct {
	writer   *RevocationWriter
	provider idp.IdentityProvider
	logger   *zap.Logger
}

// NewLogoutEverywhereHandler creates a new LogoutEverywhereHandler.
func NewLogoutEverywhereHandler(
	writer *RevocationWriter,
	provider idp.IdentityProvider,
	logger *zap.Logger,
) command.LogoutEverywhereHandler {
	return &logoutEverywhereHandler{
		writer:   writer,
		provider: provider,
		logger:   logger,
	}
}

func (h *logoutEverywhereHandler) Handle(ctx context.Context, cmd command.LogoutEverywhere) (command.LogoutEverywhereResult, error) {
	if cmd.UserID == uuid.Nil {
		return command.LogoutEverywhereResult{}, domainerror.ErrUserIDRequired
	}

	// Unlike the credential-change triggers, the revocation write is the
	// whole mutation here. A store failure fails the command.
	metadata := AuditMetadata(cmd.ClientIP, cmd.UserAgent, cmd.UserID.String())
	if err := h.writer.RevokeTemporary(ctx, cmd.UserID, model.ReasonLogoutAll, metadata); err != nil {
		return command.LogoutEverywhereResult{}, err
	}

	if err := h.provider.InvalidateSessions(ctx, cmd.UserID); err != nil {
		h.logger.Error("failed to invalidate provider sessions",
			zap.String("user_id", cmd.UserID.String()),
			zap.Error(err),
		)
	}

	return command.LogoutEverywhereResult{}, nil
}
