package command

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/0xsj/aegis/internal/app/service"
	domainerror "github.com/0xsj/aegis/internal/domain/error"
	"github.com/0xsj/aegis/internal/domain/event"
	"github.com/0xsj/aegis/internal/domain/model"
	"github.com/0xsj/aegis/internal/port/inbound/command"
	"github.com/0xsj/aegis/internal/port/outbound/idp"
	"github.com/0xsj/aegis/internal/port/outbound/messaging"
	"github.com/0xsj/aegis/internal/port/outbound/repository"
)

// changePasswordHandler implements command.ChangePasswordHandler.
type changePasswordHandler struct {
	userRepo  repository.UserRepository
	passwords service.PasswordService
	writer    *RevocationWriter
	provider  idp.IdentityProvider
	publisher messaging.EventPublisher
	logger    *zap.Logger
}

// NewChangePasswordHandler creates a new ChangePasswordHandler.
func NewChangePasswordHandler(
	userRepo repository.UserRepository,
	passwords service.PasswordService,
	writer *RevocationWriter,
	provider idp.IdentityProvider,
	publisher messaging.EventPublisher,
	logger *zap.Logger,
) command.ChangePasswordHandler {
	return &changePasswordHandler{
		userRepo:  userRepo,
		passwords: passwords,
		writer:    writer,
		provider:  provider,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *changePasswordHandler) Handle(ctx context.Context, cmd command.ChangePassword) (command.ChangePasswordResult, error) {
	if cmd.UserID == uuid.Nil {
		return command.ChangePasswordResult{}, domainerror.ErrUserIDRequired
	}

	user, err := h.userRepo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return command.ChangePasswordResult{}, domainerror.ErrUserNotFound
	}

	ok, err := h.passwords.Verify(cmd.CurrentPassword, user.PasswordHash())
	if err != nil {
		return command.ChangePasswordResult{}, err
	}
	if !ok {
		return command.ChangePasswordResult{}, domainerror.ErrInvalidCredentials
	}

	if err := h.passwords.CheckStrength(cmd.NewPassword, []string{user.Email(), user.Name()}); err != nil {
		return command.ChangePasswordResult{}, err
	}

	hash, err := h.passwords.Hash(cmd.NewPassword)
	if err != nil {
		return command.ChangePasswordResult{}, err
	}
	if err := user.SetPasswordHash(hash); err != nil {
		return command.ChangePasswordResult{}, err
	}

	// The mutation must commit before revocation is asserted; a concurrent
	// reader must never observe "revoked" for a change that rolled back.
	if err := h.userRepo.Update(ctx, user); err != nil {
		return command.ChangePasswordResult{}, err
	}

	// From here on the password change has succeeded. Revocation and
	// provider-side invalidation failures are logged and retried, but do
	// not roll back the mutation.
	metadata := AuditMetadata(cmd.ClientIP, cmd.UserAgent, user.ID().String())
	_ = h.writer.RevokeTemporary(ctx, user.ID(), model.ReasonPasswordChange, metadata)

	if err := h.provider.InvalidateSessions(ctx, user.ID()); err != nil {
		h.logger.Error("failed to invalidate provider sessions",
			zap.String("user_id", user.ID().String()),
			zap.Error(err),
		)
	}

	_ = h.publisher.Publish(ctx, event.NewUserPasswordChanged(user.ID()))

	// Re-authenticate the caller: they just invalidated the credential they
	// are holding.
	issued, err := h.provider.IssueToken(ctx, user.ID())
	if err != nil {
		h.logger.Error("failed to issue fresh token after password change",
			zap.String("user_id", user.ID().String()),
			zap.Error(err),
		)
		return command.ChangePasswordResult{}, nil
	}

	return command.ChangePasswordResult{
		Token:          issued.Token,
		TokenExpiresAt: issued.ExpiresAt.Unix(),
	}, nil
}
