package command

import (
	"context"
	"errors"

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

// changeEmailHandler implements command.ChangeEmailHandler.
type changeEmailHandler struct {
	userRepo  repository.UserRepository
	passwords service.PasswordService
	writer    *RevocationWriter
	provider  idp.IdentityProvider
	publisher messaging.EventPublisher
	logger    *zap.Logger
}

// NewChangeEmailHandler creates a new ChangeEmailHandler.
func NewChangeEmailHandler(
	userRepo repository.UserRepository,
	passwords service.PasswordService,
	writer *RevocationWriter,
	provider idp.IdentityProvider,
	publisher messaging.EventPublisher,
	logger *zap.Logger,
) command.ChangeEmailHandler {
	return &changeEmailHandler{
		userRepo:  userRepo,
		passwords: passwords,
		writer:    writer,
		provider:  provider,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *changeEmailHandler) Handle(ctx context.Context, cmd command.ChangeEmail) (command.ChangeEmailResult, error) {
	if cmd.UserID == uuid.Nil {
		return command.ChangeEmailResult{}, domainerror.ErrUserIDRequired
	}

	user, err := h.userRepo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return command.ChangeEmailResult{}, domainerror.ErrUserNotFound
	}

	ok, err := h.passwords.Verify(cmd.Password, user.PasswordHash())
	if err != nil {
		return command.ChangeEmailResult{}, err
	}
	if !ok {
		return command.ChangeEmailResult{}, domainerror.ErrInvalidCredentials
	}

	if err := user.SetEmail(cmd.NewEmail); err != nil {
		return command.ChangeEmailResult{}, err
	}

	taken, err := h.userRepo.ExistsByEmail(ctx, user.Email())
	if err != nil {
		return command.ChangeEmailResult{}, err
	}
	if taken {
		return command.ChangeEmailResult{}, domainerror.ErrEmailTaken
	}

	// Mutation commits first; see ChangePassword for the ordering rationale.
	if err := h.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return command.ChangeEmailResult{}, domainerror.ErrEmailTaken
		}
		return command.ChangeEmailResult{}, err
	}

	metadata := AuditMetadata(cmd.ClientIP, cmd.UserAgent, user.ID().String())
	_ = h.writer.RevokeTemporary(ctx, user.ID(), model.ReasonEmailChange, metadata)

	if err := h.provider.InvalidateSessions(ctx, user.ID()); err != nil {
		h.logger.Error("failed to invalidate provider sessions",
			zap.String("user_id", user.ID().String()),
			zap.Error(err),
		)
	}

	_ = h.publisher.Publish(ctx, event.NewUserEmailChanged(user.ID(), user.Email()))

	issued, err := h.provider.IssueToken(ctx, user.ID())
	if err != nil {
		h.logger.Error("failed to issue fresh token after email change",
			zap.String("user_id", user.ID().String()),
			zap.Error(err),
		)
		return command.ChangeEmailResult{}, nil
	}

	return command.ChangeEmailResult{
		Token:          issued.Token,
		TokenExpiresAt: issued.ExpiresAt.Unix(),
	}, nil
}
