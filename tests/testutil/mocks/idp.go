package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/0xsj/aegis/internal/port/outbound/idp"
)

// IdentityProvider is a mock implementation of idp.IdentityProvider.
type IdentityProvider struct {
	mu sync.RWMutex

	invalidated []uuid.UUID
	issued      []uuid.UUID

	// Token returned by IssueToken when no error is injected.
	Token idp.IssuedToken

	// Call tracking
	Calls struct {
		InvalidateSessions int
		IssueToken         int
	}

	// Error injection
	Errors struct {
		InvalidateSessions error
		IssueToken         error
	}
}

// NewIdentityProvider creates a new mock IdentityProvider.
func NewIdentityProvider() *IdentityProvider {
	return &IdentityProvider{
		Token: idp.IssuedToken{
			Token:     "issued-token",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

func (m *IdentityProvider) InvalidateSessions(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.InvalidateSessions++

	if m.Errors.InvalidateSessions != nil {
		return m.Errors.InvalidateSessions
	}
	m.invalidated = append(m.invalidated, userID)
	return nil
}

func (m *IdentityProvider) IssueToken(ctx context.Context, userID uuid.UUID) (idp.IssuedToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.IssueToken++

	if m.Errors.IssueToken != nil {
		return idp.IssuedToken{}, m.Errors.IssueToken
	}
	m.issued = append(m.issued, userID)
	return m.Token, nil
}

// Invalidated returns the users whose sessions were invalidated, in order.
func (m *IdentityProvider) Invalidated() []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]uuid.UUID, len(m.invalidated))
	copy(result, m.invalidated)
	return result
}
