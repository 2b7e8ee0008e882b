package bot

import (
	"errors"

	"github.com/siteforge/intake-system/internal/core/domain"
)

// userMessage maps a service error to the text shown to the caller. Unknown
// errors fall through to the retry notice; the caller decides whether the
// session must also be cleared.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return msgNoAccess
	case errors.Is(err, domain.ErrRequestNotFound):
		return msgRequestNotFound
	case errors.Is(err, domain.ErrNotRegistered):
		return msgRegisterFirst
	case errors.Is(err, domain.ErrBadSecret):
		return msgWrongPassword
	case errors.Is(err, domain.ErrUserExists):
		return msgAlreadyRegistered
	case errors.Is(err, domain.ErrValidation):
		return msgStorageRetry
	default:
		return msgStorageRetry
	}
}

// isDomainError reports whether the error carries its own user-facing
// meaning. Anything else is treated as a persistence failure.
func isDomainError(err error) bool {
	for _, known := range []error{
		domain.ErrForbidden,
		domain.ErrRequestNotFound,
		domain.ErrNotRegistered,
		domain.ErrBadSecret,
		domain.ErrUserExists,
		domain.ErrValidation,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
