package api

import (
	"errors"
	"net/http"

	"github.com/cramhq/cram-api/internal/api/shared"
	"github.com/cramhq/cram-api/internal/domain"
	"github.com/cramhq/cram-api/internal/service"
	"github.com/cramhq/cram-api/internal/service/auth"
	"github.com/cramhq/cram-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrEmptyImport),
		errors.Is(err, service.ErrDeckEmpty),
		errors.Is(err, service.ErrPasswordTooShort),
		isDomainValidationError(err):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal
// details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this resource"

	case errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, domain.ErrInvalidRating):
		return "Rating must be one of: again, hard, good, easy"

	case errors.Is(err, service.ErrEmptyImport):
		return "Import contains no cards"

	case errors.Is(err, service.ErrDeckEmpty):
		return "Deck needs at least two cards"

	case errors.Is(err, service.ErrPasswordTooShort):
		return "Password is too short"

	case isDomainValidationError(err):
		return err.Error()

	default:
		return "An unexpected error occurred"
	}
}

// domainValidationErrors are domain sentinels whose messages are written
// for users and safe to return verbatim.
var domainValidationErrors = []error{
	domain.ErrDeckNameEmpty,
	domain.ErrDeckNameTooLong,
	domain.ErrCardFrontEmpty,
	domain.ErrCardBackEmpty,
	domain.ErrUserEmailEmpty,
	domain.ErrUserEmailInvalid,
	domain.ErrSessionModeInvalid,
	domain.ErrSessionCountsInvalid,
}

func isDomainValidationError(err error) bool {
	for _, sentinel := range domainValidationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// RespondWithMappedError maps err to a status code and safe message and
// writes the error response, logging the underlying error.
func RespondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
