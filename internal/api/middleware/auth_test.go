package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cramhq/cram-api/internal/service/auth"
)

// fakeJWTService validates exactly one known token.
type fakeJWTService struct {
	validToken string
	userID     uuid.UUID
	err        error
}

func (f *fakeJWTService) GenerateToken(context.Context, uuid.UUID) (string, error) {
	return f.validToken, nil
}

func (f *fakeJWTService) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	if token != f.validToken {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: f.userID, TokenType: "access"}, nil
}

func (f *fakeJWTService) GenerateRefreshToken(context.Context, uuid.UUID) (string, error) {
	return "", nil
}

func (f *fakeJWTService) ValidateRefreshToken(context.Context, string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidRefreshToken
}

func runAuth(t *testing.T, svc auth.JWTService, header string) (*httptest.ResponseRecorder, uuid.UUID, bool) {
	t.Helper()

	var gotID uuid.UUID
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, called = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/decks", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()

	NewAuthMiddleware(svc).Authenticate(next).ServeHTTP(w, r)
	return w, gotID, called
}

func TestAuthenticateValidToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &fakeJWTService{validToken: "good-token", userID: userID}

	w, gotID, called := runAuth(t, svc, "Bearer good-token")

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, called, "handler must run for a valid token")
	assert.Equal(t, userID, gotID)
}

func TestAuthenticateMissingHeader(t *testing.T) {
	t.Parallel()

	w, _, called := runAuth(t, &fakeJWTService{validToken: "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	t.Parallel()

	w, _, called := runAuth(t, &fakeJWTService{validToken: "x"}, "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	t.Parallel()

	w, _, called := runAuth(t, &fakeJWTService{validToken: "x"}, "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	t.Parallel()

	svc := &fakeJWTService{validToken: "x", err: auth.ErrExpiredToken}
	w, _, called := runAuth(t, svc, "Bearer x")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}
