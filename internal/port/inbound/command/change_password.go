package command

import (
	"context"

	"github.com/google/uuid"
)

// ChangePassword replaces the caller's password. The mutation commits first;
// revocation of outstanding tokens is asserted afterwards, so a failed
// mutation never leaves a revoked-but-unchanged account.
type ChangePassword struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string

	// Audit metadata; never used for authorization decisions.
	ClientIP  string
	UserAgent string
}

func (c ChangePassword) CommandName() string {
	return "account.change_password"
}

// ChangePasswordResult carries the fresh credential for the caller, who just
// invalidated the one it authenticated with.
type ChangePasswordResult struct {
	Token          string
	TokenExpiresAt int64
}

// ChangePasswordHandler handles the ChangePassword command.
type ChangePasswordHandler interface {
	Handle(ctx context.Context, cmd ChangePassword) (ChangePasswordResult, error)
}
