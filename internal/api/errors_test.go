package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cramhq/cram-api/internal/domain"
	"github.com/cramhq/cram-api/internal/service"
	"github.com/cramhq/cram-api/internal/service/auth"
	"github.com/cramhq/cram-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"invalid refresh token", auth.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not owned", service.ErrNotOwned, http.StatusForbidden},
		{"deck not found", store.ErrDeckNotFound, http.StatusNotFound},
		{"card not found", store.ErrCardNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", store.ErrCardNotFound), http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"invalid rating", domain.ErrInvalidRating, http.StatusBadRequest},
		{"empty import", service.ErrEmptyImport, http.StatusBadRequest},
		{"deck too small", service.ErrDeckEmpty, http.StatusBadRequest},
		{"deck name empty", domain.ErrDeckNameEmpty, http.StatusBadRequest},
		{"unknown error", errors.New("database on fire"), http.StatusInternalServerError},
		{"nil-ish wrapped unknown", fmt.Errorf("oops: %w", errors.New("x")), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessageNeverLeaksInternals(t *testing.T) {
	t.Parallel()

	internal := errors.New("pq: connection refused host=10.0.0.8 password=hunter2")
	msg := GetSafeErrorMessage(internal)
	assert.Equal(t, "An unexpected error occurred", msg)
	assert.NotContains(t, msg, "hunter2")
}

func TestGetSafeErrorMessageKnownErrors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Deck not found", GetSafeErrorMessage(store.ErrDeckNotFound))
	assert.Equal(t, "Card not found",
		GetSafeErrorMessage(fmt.Errorf("get: %w", store.ErrCardNotFound)))
	assert.Equal(t, "Invalid credentials", GetSafeErrorMessage(service.ErrInvalidCredentials))
	assert.Equal(t, "You do not own this resource", GetSafeErrorMessage(service.ErrNotOwned))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}
