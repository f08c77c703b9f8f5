package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/0xsj/aegis/internal/domain/model"
)

// SearchUsersParams holds filters for user search.
type SearchUsersParams struct {
	// Query matches against email and display name, case-insensitively.
	Query  string
	Limit  int
	Offset int
}

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *model.User) error

	// Update persists changes to an existing user.
	Update(ctx context.Context, user *model.User) error

	// FindByID retrieves a user by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// FindByEmail retrieves a user by email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// ExistsByEmail checks if a user exists with the given email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Search lists users matching the params.
	Search(ctx context.Context, params SearchUsersParams) ([]*model.User, error)

	// Delete removes a user.
	Delete(ctx context.Context, id uuid.UUID) error
}
