package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/0xsj/aegis/internal/domain/model"
)

// ForceLogout is the administrative/security trigger. Reason is restricted to
// the administrative subset of the taxonomy; Permanent selects a record that
// only an explicit clear removes.
type ForceLogout struct {
	UserID    uuid.UUID
	Reason    model.RevocationReason
	Permanent bool

	// Actor identifies who triggered the action, for the audit bag.
	Actor    string
	ClientIP string
}

func (c ForceLogout) CommandName() string {
	return "admin.force_logout"
}

// ForceLogoutResult reports the scope that was written.
type ForceLogoutResult struct {
	Scope model.RevocationScope
}

// ForceLogoutHandler handles the ForceLogout command.
type ForceLogoutHandler interface {
	Handle(ctx context.Context, cmd ForceLogout) (ForceLogoutResult, error)
}
