package command

import (
	"context"

	"github.com/google/uuid"
)

// ChangeEmail replaces the caller's email address.
type ChangeEmail struct {
	UserID   uuid.UUID
	Password string
	NewEmail string

	ClientIP  string
	UserAgent string
}

func (c ChangeEmail) CommandName() string {
	return "account.change_email"
}

// ChangeEmailResult carries the fresh credential for the caller.
type ChangeEmailResult struct {
	Token          string
	TokenExpiresAt int64
}

// ChangeEmailHandler handles the ChangeEmail command.
type ChangeEmailHandler interface {
	Handle(ctx context.Context, cmd ChangeEmail) (ChangeEmailResult, error)
}
