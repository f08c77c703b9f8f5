package error

import "errors"

// User errors
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUserIDRequired = errors.New("user ID is required")
	ErrEmailRequired  = errors.New("email is required")
	ErrEmailInvalid   = errors.New("email is invalid")
	ErrEmailTaken     = errors.New("email is already in use")
)

// Credential errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooWeak    = errors.New("password is too weak")
	ErrPasswordHashFormat = errors.New("password hash has invalid format")
)

// Token errors
var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
)

// Revocation errors
var (
	ErrRevocationReasonInvalid = errors.New("revocation reason is invalid")
	ErrRevocationScopeInvalid  = errors.New("revocation scope is invalid")
	ErrRevocationWindowInvalid = errors.New("revocation window must be positive")
	ErrRevocationStoreDown     = errors.New("revocation store is unavailable")
)

// Webhook errors
var (
	ErrWebhookSignatureInvalid = errors.New("webhook signature verification failed")
	ErrWebhookEventInvalid     = errors.New("webhook event failed schema validation")
	ErrWebhookEventUnknownType = errors.New("webhook event type is not supported")
)
