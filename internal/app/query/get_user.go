package query

import (
	"context"

	"github.com/google/uuid"

	domainerror "github.com/0xsj/aegis/internal/domain/error"
	"github.com/0xsj/aegis/internal/port/inbound/query"
	"github.com/0xsj/aegis/internal/port/outbound/repository"
)

// getUserHandler implements query.GetUserHandler.
type getUserHandler struct {
	userRepo repository.UserRepository
}

// NewGetUserHandler creates a new GetUserHandler.
func NewGetUserHandler(userRepo repository.UserRepository) query.GetUserHandler {
	return &getUserHandler{
		userRepo: userRepo,
	}
}

func (h *getUserHandler) Handle(ctx context.Context, q query.GetUser) (query.GetUserResult, error) {
	if q.UserID == uuid.Nil {
		return query.GetUserResult{}, domainerror.ErrUserIDRequired
	}

	user, err := h.userRepo.FindByID(ctx, q.UserID)
	if err != nil {
		return query.GetUserResult{}, domainerror.ErrUserNotFound
	}

	return query.GetUserResult{User: user}, nil
}
