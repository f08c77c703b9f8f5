package command

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainerror "github.com/0xsj/aegis/internal/domain/error"
	"github.com/0xsj/aegis/internal/domain/model"
	"github.com/0xsj/aegis/internal/port/inbound/command"
)

// processIdentityEventHandler implements command.ProcessIdentityEventHandler.
// It reacts to changes made directly against the identity provider; the
// provider's own session list is already handled on that side, so only the
// local blacklist write remains.
type processIdentityEventHandler struct {
	writer *RevocationWriter
	logger *zap.Logger
}

// NewProcessIdentityEventHandler creates a new ProcessIdentityEventHandler.
func NewProcessIdentityEventHandler(
	writer *RevocationWriter,
	logger *zap.Logger,
) command.ProcessIdentityEventHandler {
	return &processIdentityEventHandler{
		writer: writer,
		logger: logger,
	}
}

func (h *processIdentityEventHandler) Handle(ctx context.Context, cmd command.ProcessIdentityEvent) (command.ProcessIdentityEventResult, error) {
	if cmd.UserID == uuid.Nil {
		return command.ProcessIdentityEventResult{}, domainerror.ErrUserIDRequired
	}

	metadata := map[string]string{
		"source":    "identity_provider_webhook",
		"event_id":  cmd.EventID,
		"timestamp": cmd.Timestamp.UTC().Format(time.RFC3339),
	}

	switch cmd.EventType {
	case command.IdentityEventDeleted:
		// A store failure propagates so the receiver can 500 and the
		// provider redelivers.
		if err := h.writer.RevokePermanent(ctx, cmd.UserID, model.ReasonAccountDeletion, metadata); err != nil {
			return command.ProcessIdentityEventResult{}, err
		}
		return command.ProcessIdentityEventResult{Revoked: true}, nil

	case command.IdentityEventUpdated:
		reason, ok := reasonForChangedFields(cmd.ChangedFields)
		if !ok {
			// Not a credential-equivalent change; nothing to revoke.
			h.logger.Debug("identity update without credential change",
				zap.String("user_id", cmd.UserID.String()),
				zap.Strings("changed_fields", cmd.ChangedFields),
			)
			return command.ProcessIdentityEventResult{}, nil
		}
		if err := h.writer.RevokeTemporary(ctx, cmd.UserID, reason, metadata); err != nil {
			return command.ProcessIdentityEventResult{}, err
		}
		return command.ProcessIdentityEventResult{Revoked: true}, nil

	default:
		return command.ProcessIdentityEventResult{}, domainerror.ErrWebhookEventUnknownType
	}
}

// reasonForChangedFields maps the provider's diff to a revocation reason.
// Password takes precedence when both credential fields changed.
func reasonForChangedFields(fields []string) (model.RevocationReason, bool) {
	var emailChanged bool
	for _, field := range fields {
		switch field {
		case "password":
			return model.ReasonPasswordChange, true
		case "email":
			emailChanged = true
		}
	}
	if emailChanged {
		return model.ReasonEmailChange, true
	}
	return "", false
}
