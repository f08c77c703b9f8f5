package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/0xsj/aegis/internal/domain/model"
)

// RevocationStore is a mock implementation of cache.RevocationStore. Records
// follow the production scope rules: a temporary write never downgrades an
// existing permanent record.
type RevocationStore struct {
	mu sync.RWMutex

	records map[uuid.UUID]*model.RevocationRecord
	window  time.Duration

	// Call tracking
	Calls struct {
		Revoke            int
		RevokePermanently int
		IsRevoked         int
		GetDetails        int
		Clear             int
	}

	// Error injection
	Errors struct {
		Revoke            error
		RevokePermanently error
		IsRevoked         error
		GetDetails        error
		Clear             error
	}
}

// NewRevocationStore creates a new mock RevocationStore.
func NewRevocationStore(window time.Duration) *RevocationStore {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &RevocationStore{
		records: make(map[uuid.UUID]*model.RevocationRecord),
		window:  window,
	}
}

func (m *RevocationStore) Revoke(ctx context.Context, userID uuid.UUID, reason model.RevocationReason, metadata map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Revoke++

	if m.Errors.Revoke != nil {
		return m.Errors.Revoke
	}

	if existing, ok := m.records[userID]; ok && existing.IsPermanent() {
		return nil
	}

	record, err := model.NewTemporaryRevocation(userID, reason, m.window, metadata)
	if err != nil {
		return err
	}
	m.records[userID] = record
	return nil
}

func (m *RevocationStore) RevokePermanently(ctx context.Context, userID uuid.UUID, reason model.RevocationReason, metadata map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.RevokePermanently++

	if m.Errors.RevokePermanently != nil {
		return m.Errors.RevokePermanently
	}

	record, err := model.NewPermanentRevocation(userID, reason, metadata)
	if err != nil {
		return err
	}
	m.records[userID] = record
	return nil
}

func (m *RevocationStore) IsRevoked(ctx context.Context, userID uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.Calls.IsRevoked++

	if m.Errors.IsRevoked != nil {
		return false, m.Errors.IsRevoked
	}

	record, ok := m.records[userID]
	if !ok {
		return false, nil
	}
	return record.Covers(time.Now().UTC()), nil
}

func (m *RevocationStore) GetDetails(ctx context.Context, userID uuid.UUID) (*model.RevocationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.Calls.GetDetails++

	if m.Errors.GetDetails != nil {
		return nil, m.Errors.GetDetails
	}
	return m.records[userID], nil
}

func (m *RevocationStore) Clear(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Clear++

	if m.Errors.Clear != nil {
		return m.Errors.Clear
	}

	delete(m.records, userID)
	return nil
}

// Record returns the stored record for a user, or nil.
func (m *RevocationStore) Record(userID uuid.UUID) *model.RevocationRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records[userID]
}
