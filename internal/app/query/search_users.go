package query

import (
	"context"

	"github.com/0xsj/aegis/internal/port/inbound/query"
	"github.com/0xsj/aegis/internal/port/outbound/repository"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200
)

// searchUsersHandler implements query.SearchUsersHandler.
type searchUsersHandler struct {
	userRepo repository.UserRepository
}

// NewSearchUsersHandler creates a new SearchUsersHandler.
func NewSearchUsersHandler(userRepo repository.UserRepository) query.SearchUsersHandler {
	return &searchUsersHandler{
		userRepo: userRepo,
	}
}

func (h *searchUsersHandler) Handle(ctx context.Context, q query.SearchUsers) (query.SearchUsersResult, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	users, err := h.userRepo.Search(ctx, repository.SearchUsersParams{
		Query:  q.Query,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return query.SearchUsersResult{}, err
	}

	return query.SearchUsersResult{Users: users}, nil
}
