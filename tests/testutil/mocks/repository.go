package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/0xsj/aegis/internal/domain/model"
	"github.com/0xsj/aegis/internal/port/outbound/repository"
)

// UserRepository is a mock implementation of repository.UserRepository backed
// by an in-memory map.
type UserRepository struct {
	mu sync.RWMutex

	users   map[uuid.UUID]*model.User
	byEmail map[string]uuid.UUID

	// Call tracking
	Calls struct {
		Create        int
		Update        int
		FindByID      int
		FindByEmail   int
		ExistsByEmail int
		Search        int
		Delete        int
	}

	// Error injection
	Errors struct {
		Create        error
		Update        error
		FindByID      error
		FindByEmail   error
		ExistsByEmail error
		Search        error
		Delete        error
	}
}

// NewUserRepository creates a new mock UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[uuid.UUID]*model.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

// Seed stores a user directly, bypassing call tracking and error injection.
func (m *UserRepository) Seed(user *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID()] = user
	m.byEmail[user.Email()] = user.ID()
}

func (m *UserRepository) Create(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Create++

	if m.Errors.Create != nil {
		return m.Errors.Create
	}

	if _, ok := m.byEmail[user.Email()]; ok {
		return repository.ErrDuplicateEmail
	}
	m.users[user.ID()] = user
	m.byEmail[user.Email()] = user.ID()
	return nil
}

func (m *UserRepository) Update(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Update++

	if m.Errors.Update != nil {
		return m.Errors.Update
	}

	existing, ok := m.users[user.ID()]
	if !ok {
		return repository.ErrNotFound
	}
	if other, taken := m.byEmail[user.Email()]; taken && other != user.ID() {
		return repository.ErrDuplicateEmail
	}

	delete(m.byEmail, existing.Email())
	m.users[user.ID()] = user
	m.byEmail[user.Email()] = user.ID()
	return nil
}

func (m *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.Calls.FindByID++

	if m.Errors.FindByID != nil {
		return nil, m.Errors.FindByID
	}

	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (m *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.Calls.FindByEmail++

	if m.Errors.FindByEmail != nil {
		return nil, m.Errors.FindByEmail
	}

	id, ok := m.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m.users[id], nil
}

func (m *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.Calls.ExistsByEmail++

	if m.Errors.ExistsByEmail != nil {
		return false, m.Errors.ExistsByEmail
	}

	_, ok := m.byEmail[email]
	return ok, nil
}

func (m *UserRepository) Search(ctx context.Context, params repository.SearchUsersParams) ([]*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.Calls.Search++

	if m.Errors.Search != nil {
		return nil, m.Errors.Search
	}

	query := strings.ToLower(params.Query)
	var matched []*model.User
	for _, user := range m.users {
		if query == "" ||
			strings.Contains(strings.ToLower(user.Email()), query) ||
			strings.Contains(strings.ToLower(user.Name()), query) {
			matched = append(matched, user)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Email() < matched[j].Email()
	})

	if params.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[params.Offset:]
	if params.Limit > 0 && params.Limit < len(matched) {
		matched = matched[:params.Limit]
	}
	return matched, nil
}

func (m *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Delete++

	if m.Errors.Delete != nil {
		return m.Errors.Delete
	}

	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(m.byEmail, user.Email())
	delete(m.users, id)
	return nil
}
