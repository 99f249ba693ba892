package api

import (
	"net/http"
	"strconv"

	"github.com/cramhq/cram-api/internal/api/shared"
	"github.com/cramhq/cram-api/internal/domain"
	"github.com/cramhq/cram-api/internal/service"
)

// StudyHandler handles study flow API requests: due card queues, review
// submissions, and session history.
type StudyHandler struct {
	study service.StudyService
}

// NewStudyHandler creates a new StudyHandler with the given dependencies.
func NewStudyHandler(study service.StudyService) *StudyHandler {
	return &StudyHandler{study: study}
}

// GetDueCards handles GET /decks/{deckID}/due.
func (h *StudyHandler) GetDueCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	deckID, ok := pathID(w, r, "deckID")
	if !ok {
		return
	}

	due, err := h.study.GetDueCards(r.Context(), userID, deckID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	out := make([]DueCardResponse, 0, len(due))
	for _, d := range due {
		out = append(out, DueCardResponse{
			CardID:       d.Card.ID,
			Front:        d.Card.Front,
			Back:         d.Card.Back,
			Position:     d.Card.Position,
			NextReviewAt: d.State.NextReviewAt,
			NewCard:      !d.State.Reviewed(),
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// SubmitReview handles POST /cards/{cardID}/review.
func (h *StudyHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	cardID, ok := pathID(w, r, "cardID")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Rating must be one of: again, hard, good, easy")
		return
	}

	state, err := h.study.SubmitReview(r.Context(), userID, cardID, domain.Rating(req.Rating))
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MemoryStateResponse{
		CardID:       state.CardID,
		EaseFactor:   state.EaseFactor,
		IntervalDays: state.IntervalDays,
		Repetitions:  state.Repetitions,
		NextReviewAt: state.NextReviewAt,
	})
}

// LogSession handles POST /sessions.
func (h *StudyHandler) LogSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req SessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error")
		return
	}

	session, err := domain.NewStudySession(
		userID, req.DeckID, domain.StudyMode(req.Mode),
		req.CardsStudied, req.CorrectCount,
		req.StartedAt, req.FinishedAt)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	if err := h.study.LogSession(r.Context(), session); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, session)
}

// ListSessions handles GET /sessions. An optional limit query parameter
// caps the number of returned summaries.
func (h *StudyHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	sessions, err := h.study.ListSessions(r.Context(), userID, limit)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessions)
}
