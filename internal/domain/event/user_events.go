package event

import (
	"github.com/google/uuid"
)

// UserPasswordChanged is emitted after a password change commits.
type UserPasswordChanged struct {
	BaseEvent
	UserID uuid.UUID
}

// NewUserPasswordChanged creates a new UserPasswordChanged event.
func NewUserPasswordChanged(userID uuid.UUID) UserPasswordChanged {
	return UserPasswordChanged{
		BaseEvent: NewBaseEvent(EventTypeUserPasswordChanged, userID, AggregateTypeUser),
		UserID:    userID,
	}
}

// UserEmailChanged is emitted after an email change commits.
type UserEmailChanged struct {
	BaseEvent
	UserID   uuid.UUID
	NewEmail string
}

// NewUserEmailChanged creates a new UserEmailChanged event.
func NewUserEmailChanged(userID uuid.UUID, newEmail string) UserEmailChanged {
	return UserEmailChanged{
		BaseEvent: NewBaseEvent(EventTypeUserEmailChanged, userID, AggregateTypeUser),
		UserID:    userID,
		NewEmail:  newEmail,
	}
}

// UserDeleted is emitted after an account deletion commits.
type UserDeleted struct {
	BaseEvent
	UserID uuid.UUID
}

// NewUserDeleted creates a new UserDeleted event.
func NewUserDeleted(userID uuid.UUID) UserDeleted {
	return UserDeleted{
		BaseEvent: NewBaseEvent(EventTypeUserDeleted, userID, AggregateTypeUser),
		UserID:    userID,
	}
}
