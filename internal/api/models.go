package api

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the payload for user login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest is the payload for exchanging a refresh token for
// a new token pair.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned for successful register, login, and refresh
// requests.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
}

// CreateDeckRequest is the payload for deck creation.
type CreateDeckRequest struct {
	Name        string `json:"name"        validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateDeckRequest is the payload for renaming a deck.
type UpdateDeckRequest struct {
	Name        string `json:"name"        validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// CardRequest is the payload for creating or updating a card.
type CardRequest struct {
	Front string `json:"front" validate:"required,max=10000"`
	Back  string `json:"back"  validate:"required,max=10000"`
}

// ImportResponse reports how many rows an accepted CSV import queued.
type ImportResponse struct {
	RowsQueued int `json:"rows_queued"`
}

// ReviewRequest is the payload for submitting a review outcome.
type ReviewRequest struct {
	Rating string `json:"rating" validate:"required,oneof=again hard good easy"`
}

// MemoryStateResponse is the scheduler state returned after a review.
type MemoryStateResponse struct {
	CardID       uuid.UUID `json:"card_id"`
	EaseFactor   float64   `json:"ease_factor"`
	IntervalDays int       `json:"interval_days"`
	Repetitions  int       `json:"repetitions"`
	NextReviewAt time.Time `json:"next_review_at"`
}

// DueCardResponse is one due card in a study queue.
type DueCardResponse struct {
	CardID       uuid.UUID `json:"card_id"`
	Front        string    `json:"front"`
	Back         string    `json:"back"`
	Position     int       `json:"position"`
	NextReviewAt time.Time `json:"next_review_at"`
	NewCard      bool      `json:"new_card"`
}

// SessionRequest is the payload for logging a finished study session.
type SessionRequest struct {
	DeckID       uuid.UUID `json:"deck_id"       validate:"required"`
	Mode         string    `json:"mode"          validate:"required,oneof=flip quiz review"`
	CardsStudied int       `json:"cards_studied" validate:"gte=0"`
	CorrectCount int       `json:"correct_count" validate:"gte=0"`
	StartedAt    time.Time `json:"started_at"    validate:"required"`
	FinishedAt   time.Time `json:"finished_at"   validate:"required"`
}

// QuizRequest is the payload for generating a quiz.
type QuizRequest struct {
	Limit int `json:"limit" validate:"gte=0,lte=100"`
}

// QuizAnswerRequest is the payload for grading a typed answer.
type QuizAnswerRequest struct {
	Answer string `json:"answer"`
}

// QuizAnswerResponse reports the verdict for a typed answer.
type QuizAnswerResponse struct {
	Verdict string `json:"verdict"`
}
