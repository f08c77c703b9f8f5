package query

import (
	"context"

	"github.com/google/uuid"

	domainerror "github.com/0xsj/aegis/internal/domain/error"
	"github.com/0xsj/aegis/internal/port/inbound/query"
	"github.com/0xsj/aegis/internal/port/outbound/cache"
)

// getSecurityStatusHandler implements query.GetSecurityStatusHandler.
type getSecurityStatusHandler struct {
	store cache.RevocationStore
}

// NewGetSecurityStatusHandler creates a new GetSecurityStatusHandler.
func NewGetSecurityStatusHandler(store cache.RevocationStore) query.GetSecurityStatusHandler {
	return &getSecurityStatusHandler{
		store: store,
	}
}

func (h *getSecurityStatusHandler) Handle(ctx context.Context, q query.GetSecurityStatus) (query.GetSecurityStatusResult, error) {
	if q.UserID == uuid.Nil {
		return query.GetSecurityStatusResult{}, domainerror.ErrUserIDRequired
	}

	record, err := h.store.GetDetails(ctx, q.UserID)
	if err != nil {
		return query.GetSecurityStatusResult{}, err
	}
	if record == nil {
		return query.GetSecurityStatusResult{}, nil
	}

	result := query.GetSecurityStatusResult{
		Revoked:   true,
		Reason:    record.Reason(),
		Scope:     record.Scope(),
		CreatedAt: record.CreatedAt(),
	}
	if expiresAt, ok := record.ExpiresAt(); ok {
		result.ExpiresAt = expiresAt
	}

	return result, nil
}
