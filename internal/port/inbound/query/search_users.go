package query

import (
	"context"

	"github.com/0xsj/aegis/internal/domain/model"
)

// SearchUsers lists users matching a free-text query over email and name.
type SearchUsers struct {
	Query  string
	Limit  int
	Offset int
}

// SearchUsersResult contains the matching users.
type SearchUsersResult struct {
	Users []*model.User
}

// SearchUsersHandler handles the SearchUsers query.
type SearchUsersHandler interface {
	Handle(ctx context.Context, q SearchUsers) (SearchUsersResult, error)
}
