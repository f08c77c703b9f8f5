package command

import (
	"context"

	"github.com/google/uuid"
)

// ClearRevocation removes any revocation record for a user, temporary or
// permanent. Administrative use only; this is the sole path that deletes a
// permanent record.
type ClearRevocation struct {
	UserID uuid.UUID
	Actor  string
}

func (c ClearRevocation) CommandName() string {
	return "admin.clear_revocation"
}

// ClearRevocationResult is empty.
type ClearRevocationResult struct{}

// ClearRevocationHandler handles the ClearRevocation command.
type ClearRevocationHandler interface {
	Handle(ctx context.Context, cmd ClearRevocation) (ClearRevocationResult, error)
}
