package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// StudyMode identifies which study surface produced a session.
type StudyMode string

// Possible study modes.
const (
	StudyModeFlip   StudyMode = "flip"
	StudyModeQuiz   StudyMode = "quiz"
	StudyModeReview StudyMode = "review"
)

// StudySession validation errors
var (
	ErrSessionIDEmpty     = errors.New("study session ID cannot be empty")
	ErrSessionUserIDEmpty = errors.New("study session user ID cannot be empty")
	ErrSessionDeckIDEmpty = errors.New("study session deck ID cannot be empty")

	// ErrSessionModeInvalid is returned when the mode is not one of the
	// known study modes.
	ErrSessionModeInvalid = errors.New("invalid study mode")

	// ErrSessionCountsInvalid is returned when the correct count exceeds the
	// number of cards studied or either count is negative.
	ErrSessionCountsInvalid = errors.New("invalid study session counts")
)

// StudySession is an append-only summary of one completed study session.
// Sessions are bookkeeping for the user's history view; they are never
// read back by the scheduler.
type StudySession struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	DeckID       uuid.UUID `json:"deck_id"`
	Mode         StudyMode `json:"mode"`
	CardsStudied int       `json:"cards_studied"`
	CorrectCount int       `json:"correct_count"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}

// NewStudySession creates a session summary record. It generates a new
// UUID for the session ID. Returns an error if validation fails.
func NewStudySession(
	userID, deckID uuid.UUID,
	mode StudyMode,
	cardsStudied, correctCount int,
	startedAt, finishedAt time.Time,
) (*StudySession, error) {
	session := &StudySession{
		ID:           uuid.New(),
		UserID:       userID,
		DeckID:       deckID,
		Mode:         mode,
		CardsStudied: cardsStudied,
		CorrectCount: correctCount,
		StartedAt:    startedAt,
		FinishedAt:   finishedAt,
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the StudySession has valid data.
func (s *StudySession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}

	if s.UserID == uuid.Nil {
		return ErrSessionUserIDEmpty
	}

	if s.DeckID == uuid.Nil {
		return ErrSessionDeckIDEmpty
	}

	switch s.Mode {
	case StudyModeFlip, StudyModeQuiz, StudyModeReview:
	default:
		return ErrSessionModeInvalid
	}

	if s.CardsStudied < 0 || s.CorrectCount < 0 || s.CorrectCount > s.CardsStudied {
		return ErrSessionCountsInvalid
	}

	return nil
}

// Accuracy returns the fraction of studied cards answered correctly, or
// zero for an empty session.
func (s *StudySession) Accuracy() float64 {
	if s.CardsStudied == 0 {
		return 0
	}
	return float64(s.CorrectCount) / float64(s.CardsStudied)
}
