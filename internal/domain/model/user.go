package model

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	domainerror "github.com/0xsj/aegis/internal/domain/error"
)

// User represents an account in the directory. The service owns the
// credential-equivalent facts (email, password hash); the identity provider
// owns token issuance and its server-side session list.
type User struct {
	id           uuid.UUID
	email        string
	name         string
	passwordHash string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates a new User.
func NewUser(email, name, passwordHash string) (*User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, domainerror.ErrPasswordRequired
	}

	now := time.Now().UTC()

	return &User{
		id:           uuid.New(),
		email:        email,
		name:         strings.TrimSpace(name),
		passwordHash: passwordHash,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructUser creates a User from persisted data.
func ReconstructUser(
	id uuid.UUID,
	email string,
	name string,
	passwordHash string,
	createdAt time.Time,
	updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// Getters

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Email() string        { return u.email }
func (u *User) Name() string         { return u.name }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// Commands

// SetEmail replaces the user's email address.
func (u *User) SetEmail(email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	u.email = normalized
	u.updatedAt = time.Now().UTC()
	return nil
}

// SetName replaces the user's display name.
func (u *User) SetName(name string) {
	u.name = strings.TrimSpace(name)
	u.updatedAt = time.Now().UTC()
}

// SetPasswordHash replaces the stored credential hash.
func (u *User) SetPasswordHash(hash string) error {
	if hash == "" {
		return domainerror.ErrPasswordRequired
	}
	u.passwordHash = hash
	u.updatedAt = time.Now().UTC()
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", domainerror.ErrEmailRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", domainerror.ErrEmailInvalid
	}
	return email, nil
}
