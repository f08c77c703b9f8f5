package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/0xsj/aegis/internal/domain/model"
)

// GetUser retrieves a user by ID.
type GetUser struct {
	UserID uuid.UUID
}

// GetUserResult contains the requested user.
type GetUserResult struct {
	User *model.User
}

// GetUserHandler handles the GetUser query.
type GetUserHandler interface {
	Handle(ctx context.Context, q GetUser) (GetUserResult, error)
}
