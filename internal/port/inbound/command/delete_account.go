package command

import (
	"context"

	"github.com/google/uuid"
)

// DeleteAccount removes the user and permanently revokes all of their tokens.
type DeleteAccount struct {
	UserID uuid.UUID

	ClientIP  string
	UserAgent string
}

func (c DeleteAccount) CommandName() string {
	return "account.delete"
}

// DeleteAccountResult is empty.
type DeleteAccountResult struct{}

// DeleteAccountHandler handles the DeleteAccount command.
type DeleteAccountHandler interface {
	Handle(ctx context.Context, cmd DeleteAccount) (DeleteAccountResult, error)
}
