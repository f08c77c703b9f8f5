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

// forceLogoutHandler implements command.ForceLogoutHandler.
type forceLogoutHandler struct {
	writer   *RevocationWriter
	provider idp.IdentityProvider
	logger   *zap.Logger
}

// NewForceLogoutHandler creates a new ForceLogoutHandler.
func NewForceLogoutHandler(
	writer *RevocationWriter,
	provider idp.IdentityProvider,
	logger *zap.Logger,
) command.ForceLogoutHandler {
	return &forceLogoutHandler{
		writer:   writer,
		provider: provider,
		logger:   logger,
	}
}

func (h *forceLogoutHandler) Handle(ctx context.Context, cmd command.ForceLogout) (command.ForceLogoutResult, error) {
	if cmd.UserID == uuid.Nil {
		return command.ForceLogoutResult{}, domainerror.ErrUserIDRequired
	}
	if !isAdministrativeReason(cmd.Reason) {
		return command.ForceLogoutResult{}, domainerror.ErrRevocationReasonInvalid
	}

	metadata := AuditMetadata(cmd.ClientIP, "", cmd.Actor)

	scope := model.ScopeTemporary
	var err error
	if cmd.Permanent {
		scope = model.ScopePermanent
		err = h.writer.RevokePermanent(ctx, cmd.UserID, cmd.Reason, metadata)
	} else {
		err = h.writer.RevokeTemporary(ctx, cmd.UserID, cmd.Reason, metadata)
	}
	if err != nil {
		return command.ForceLogoutResult{}, err
	}

	if err := h.provider.InvalidateSessions(ctx, cmd.UserID); err != nil {
		h.logger.Error("failed to invalidate provider sessions",
			zap.String("user_id", cmd.UserID.String()),
			zap.Error(err),
		)
	}

	return command.ForceLogoutResult{Scope: scope}, nil
}

// isAdministrativeReason restricts force-logout to the administrative subset
// of the reason taxonomy.
func isAdministrativeReason(reason model.RevocationReason) bool {
	switch reason {
	case model.ReasonAdminAction, model.ReasonSecurityIncident, model.ReasonSuspiciousActivity:
		return true
	}
	return false
}
