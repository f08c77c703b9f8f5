package testutil

import (
	"github.com/google/uuid"

	"github.com/0xsj/aegis/internal/app/service"
	"github.com/0xsj/aegis/internal/domain/model"
)

// Fixtures provides builders for domain models in tests.
var Fixtures = &fixtures{}

type fixtures struct{}

// PasswordService returns a password service with deliberately cheap Argon2
// parameters so hashing does not dominate test runtime.
func (f *fixtures) PasswordService() service.PasswordService {
	return service.NewPasswordService(service.Argon2Params{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
}

// User creates a user with default values and the given plaintext password.
func (f *fixtures) User(password string) *model.User {
	hash, err := f.PasswordService().Hash(password)
	if err != nil {
		panic("fixtures: failed to hash password: " + err.Error())
	}
	user, err := model.NewUser("alice@example.com", "Alice", hash)
	if err != nil {
		panic("fixtures: failed to create user: " + err.Error())
	}
	return user
}

// UserWithEmail creates a user with a specific email.
func (f *fixtures) UserWithEmail(email, password string) *model.User {
	hash, err := f.PasswordService().Hash(password)
	if err != nil {
		panic("fixtures: failed to hash password: " + err.Error())
	}
	user, err := model.NewUser(email, "Test User", hash)
	if err != nil {
		panic("fixtures: failed to create user: " + err.Error())
	}
	return user
}

// UserID returns a fresh random user ID.
func (f *fixtures) UserID() uuid.UUID {
	return uuid.New()
}
