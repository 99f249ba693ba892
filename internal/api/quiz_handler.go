package api

import (
	"net/http"

	"github.com/cramhq/cram-api/internal/api/shared"
	"github.com/cramhq/cram-api/internal/service"
)

// QuizHandler handles quiz generation and answer grading API requests.
type QuizHandler struct {
	quiz service.QuizService
}

// NewQuizHandler creates a new QuizHandler with the given dependencies.
func NewQuizHandler(quiz service.QuizService) *QuizHandler {
	return &QuizHandler{quiz: quiz}
}

// GenerateQuiz handles POST /decks/{deckID}/quiz.
func (h *QuizHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	deckID, ok := pathID(w, r, "deckID")
	if !ok {
		return
	}

	var req QuizRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error")
		return
	}

	questions, err := h.quiz.GenerateQuiz(r.Context(), userID, deckID, req.Limit)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, questions)
}

// GradeAnswer handles POST /cards/{cardID}/answer.
func (h *QuizHandler) GradeAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	cardID, ok := pathID(w, r, "cardID")
	if !ok {
		return
	}

	var req QuizAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	verdict, err := h.quiz.GradeAnswer(r.Context(), userID, cardID, req.Answer)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, QuizAnswerResponse{Verdict: string(verdict)})
}
