package http

import (
	"errors"
	"net/http"

	domainerror "github.com/0xsj/aegis/internal/domain/error"
	"github.com/0xsj/aegis/internal/port/outbound/repository"
)

// mapError translates domain errors into HTTP status codes and caller-facing
// messages. Authentication failures stay generic: the specific revocation
// reason is only exposed on the self-service security-status surface.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, domainerror.ErrUserNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "user not found"

	case errors.Is(err, domainerror.ErrUserIDRequired),
		errors.Is(err, domainerror.ErrEmailRequired),
		errors.Is(err, domainerror.ErrEmailInvalid),
		errors.Is(err, domainerror.ErrPasswordRequired),
		errors.Is(err, domainerror.ErrRevocationReasonInvalid),
		errors.Is(err, domainerror.ErrRevocationScopeInvalid):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, domainerror.ErrPasswordTooWeak):
		return http.StatusUnprocessableEntity, "password is too weak"

	case errors.Is(err, domainerror.ErrEmailTaken):
		return http.StatusConflict, "email is already in use"

	case errors.Is(err, domainerror.ErrInvalidCredentials):
		return http.StatusForbidden, "invalid credentials"

	case errors.Is(err, domainerror.ErrTokenInvalid),
		errors.Is(err, domainerror.ErrTokenExpired):
		return http.StatusUnauthorized, "authentication failed"

	default:
		return http.StatusInternalServerError, "internal error"
	}
}
