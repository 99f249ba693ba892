package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cramhq/cram-api/internal/api/shared"
	"github.com/cramhq/cram-api/internal/domain"
	"github.com/cramhq/cram-api/internal/domain/srs"
	"github.com/cramhq/cram-api/internal/store"
)

// fakeStudyService implements service.StudyService with canned responses.
type fakeStudyService struct {
	due       []srs.DueCard
	dueErr    error
	state     *domain.MemoryState
	reviewErr error

	gotCardID uuid.UUID
	gotRating domain.Rating
}

func (f *fakeStudyService) GetDueCards(
	_ context.Context, _, _ uuid.UUID,
) ([]srs.DueCard, error) {
	return f.due, f.dueErr
}

func (f *fakeStudyService) SubmitReview(
	_ context.Context, _, cardID uuid.UUID, rating domain.Rating,
) (*domain.MemoryState, error) {
	f.gotCardID = cardID
	f.gotRating = rating
	return f.state, f.reviewErr
}

func (f *fakeStudyService) LogSession(context.Context, *domain.StudySession) error {
	return nil
}

func (f *fakeStudyService) ListSessions(
	context.Context, uuid.UUID, int,
) ([]*domain.StudySession, error) {
	return nil, nil
}

// authedRequest builds a request carrying an authenticated user ID and
// the given chi URL params.
func authedRequest(
	method, target string,
	body string,
	userID uuid.UUID,
	params map[string]string,
) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}

	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)

	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)

	return r.WithContext(ctx)
}

func TestGetDueCardsResponseShape(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deckID := uuid.New()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	card, err := domain.NewCard(userID, deckID, "bonjour", "hello", 0)
	require.NoError(t, err)
	state, _ := srs.StateOrDefault(nil, userID, card.ID, now)

	svc := &fakeStudyService{due: []srs.DueCard{{Card: *card, State: state}}}
	handler := NewStudyHandler(svc)

	w := httptest.NewRecorder()
	r := authedRequest(http.MethodGet, "/decks/"+deckID.String()+"/due", "",
		userID, map[string]string{"deckID": deckID.String()})
	handler.GetDueCards(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var got []DueCardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, card.ID, got[0].CardID)
	assert.Equal(t, "bonjour", got[0].Front)
	assert.True(t, got[0].NewCard)
}

func TestGetDueCardsEmptyQueueIsEmptyArray(t *testing.T) {
	t.Parallel()

	handler := NewStudyHandler(&fakeStudyService{})
	deckID := uuid.New()

	w := httptest.NewRecorder()
	r := authedRequest(http.MethodGet, "/decks/"+deckID.String()+"/due", "",
		uuid.New(), map[string]string{"deckID": deckID.String()})
	handler.GetDueCards(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestGetDueCardsInvalidDeckID(t *testing.T) {
	t.Parallel()

	handler := NewStudyHandler(&fakeStudyService{})

	w := httptest.NewRecorder()
	r := authedRequest(http.MethodGet, "/decks/not-a-uuid/due", "",
		uuid.New(), map[string]string{"deckID": "not-a-uuid"})
	handler.GetDueCards(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDueCardsRequiresAuth(t *testing.T) {
	t.Parallel()

	handler := NewStudyHandler(&fakeStudyService{})
	deckID := uuid.New()

	// No user ID in context.
	r := httptest.NewRequest(http.MethodGet, "/decks/"+deckID.String()+"/due", nil)
	w := httptest.NewRecorder()
	handler.GetDueCards(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitReview(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	svc := &fakeStudyService{state: &domain.MemoryState{
		UserID:       userID,
		CardID:       cardID,
		EaseFactor:   2.5,
		IntervalDays: 3,
		Repetitions:  1,
		NextReviewAt: now.AddDate(0, 0, 3),
	}}
	handler := NewStudyHandler(svc)

	w := httptest.NewRecorder()
	r := authedRequest(http.MethodPost, "/cards/"+cardID.String()+"/review",
		`{"rating":"good"}`, userID, map[string]string{"cardID": cardID.String()})
	handler.SubmitReview(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, cardID, svc.gotCardID)
	assert.Equal(t, domain.RatingGood, svc.gotRating)

	var got MemoryStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 3, got.IntervalDays)
	assert.Equal(t, 1, got.Repetitions)
}

func TestSubmitReviewRejectsUnknownRating(t *testing.T) {
	t.Parallel()

	handler := NewStudyHandler(&fakeStudyService{})
	cardID := uuid.New()

	w := httptest.NewRecorder()
	r := authedRequest(http.MethodPost, "/cards/"+cardID.String()+"/review",
		`{"rating":"perfect"}`, uuid.New(), map[string]string{"cardID": cardID.String()})
	handler.SubmitReview(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitReviewMapsCardNotFound(t *testing.T) {
	t.Parallel()

	handler := NewStudyHandler(&fakeStudyService{reviewErr: store.ErrCardNotFound})
	cardID := uuid.New()

	w := httptest.NewRecorder()
	r := authedRequest(http.MethodPost, "/cards/"+cardID.String()+"/review",
		`{"rating":"good"}`, uuid.New(), map[string]string{"cardID": cardID.String()})
	handler.SubmitReview(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitReviewMalformedBody(t *testing.T) {
	t.Parallel()

	handler := NewStudyHandler(&fakeStudyService{})
	cardID := uuid.New()

	w := httptest.NewRecorder()
	r := authedRequest(http.MethodPost, "/cards/"+cardID.String()+"/review",
		`{not json`, uuid.New(), map[string]string{"cardID": cardID.String()})
	handler.SubmitReview(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
