package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Rating is a user's self-assessment of recall difficulty, reported
// immediately after reviewing a card. The set of values is closed; any
// other string is rejected by Validate.
type Rating string

// Possible rating values, from complete failure to effortless recall.
const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

// ErrInvalidRating is returned when a rating is outside the four-value set.
var ErrInvalidRating = errors.New("invalid rating")

// Validate returns ErrInvalidRating unless the rating is one of the four
// enumerated values.
func (r Rating) Validate() error {
	switch r {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return nil
	default:
		return ErrInvalidRating
	}
}

// Bounds for MemoryState fields. Ease is clamped to this range by the
// scheduler on every update; the interval never drops below one day.
const (
	MinEaseFactor      = 1.3
	MaxEaseFactor      = 2.5
	DefaultEaseFactor  = 2.5
	MinIntervalDays    = 1
	DefaultInterval    = 1
	DefaultRepetitions = 0
)

// MemoryState validation errors
var (
	ErrMemoryStateUserIDEmpty = errors.New("memory state user ID cannot be empty")
	ErrMemoryStateCardIDEmpty = errors.New("memory state card ID cannot be empty")

	// ErrEaseFactorOutOfRange is returned when the ease factor lies outside
	// [MinEaseFactor, MaxEaseFactor].
	ErrEaseFactorOutOfRange = errors.New("ease factor out of range")

	// ErrIntervalTooSmall is returned when the interval is below one day.
	ErrIntervalTooSmall = errors.New("interval must be at least one day")

	// ErrRepetitionsNegative is returned when the repetition count is negative.
	ErrRepetitionsNegative = errors.New("repetitions cannot be negative")
)

// MemoryState tracks the spaced-repetition memory parameters for one
// user/card pair. A card with no persisted state is treated as having the
// default state, which makes it immediately due. The state is mutated
// exactly once per review action, by replacing it with the scheduler's
// output.
type MemoryState struct {
	UserID       uuid.UUID `json:"user_id"`
	CardID       uuid.UUID `json:"card_id"`
	EaseFactor   float64   `json:"ease_factor"`
	IntervalDays int       `json:"interval_days"`
	Repetitions  int       `json:"repetitions"`

	// LastReviewedAt is the zero time for a card that has never been
	// reviewed.
	LastReviewedAt time.Time `json:"last_reviewed_at"`

	// NextReviewAt marks when the card becomes due. The comparison is
	// inclusive: a card is due when now >= NextReviewAt.
	NextReviewAt time.Time `json:"next_review_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewMemoryState creates the default memory state for a user/card pair:
// full ease, a one-day interval, no repetitions, and immediately due.
func NewMemoryState(userID, cardID uuid.UUID, now time.Time) (*MemoryState, error) {
	state := &MemoryState{
		UserID:       userID,
		CardID:       cardID,
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: DefaultInterval,
		Repetitions:  DefaultRepetitions,
		NextReviewAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks the MemoryState invariants.
// Returns an error if any field fails validation.
func (s *MemoryState) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrMemoryStateUserIDEmpty
	}

	if s.CardID == uuid.Nil {
		return ErrMemoryStateCardIDEmpty
	}

	if s.EaseFactor < MinEaseFactor || s.EaseFactor > MaxEaseFactor {
		return ErrEaseFactorOutOfRange
	}

	if s.IntervalDays < MinIntervalDays {
		return ErrIntervalTooSmall
	}

	if s.Repetitions < 0 {
		return ErrRepetitionsNegative
	}

	return nil
}

// IsDue reports whether the card is due for review at the given instant.
// The boundary is inclusive: a card whose NextReviewAt equals now is due.
func (s *MemoryState) IsDue(now time.Time) bool {
	return !s.NextReviewAt.After(now)
}

// Reviewed reports whether the card has ever been reviewed.
func (s *MemoryState) Reviewed() bool {
	return !s.LastReviewedAt.IsZero()
}
