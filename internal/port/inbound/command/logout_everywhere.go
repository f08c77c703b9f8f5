package command

import (
	"context"

	"github.com/google/uuid"
)

// LogoutEverywhere revokes every outstanding token for the caller. Here the
// revocation write is the mutation itself, so a store failure fails the
// command.
type LogoutEverywhere struct {
	UserID uuid.UUID

	ClientIP  string
	UserAgent string
}

func (c LogoutEverywhere) CommandName() string {
	return "account.logout_everywhere"
}

// LogoutEverywhereResult is empty; success means the revocation is recorded.
type LogoutEverywhereResult struct{}

// LogoutEverywhereHandler handles the LogoutEverywhere command.
type LogoutEverywhereHandler interface {
	Handle(ctx context.Context, cmd LogoutEverywhere) (LogoutEverywhereResult, error)
}
