package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cramhq/cram-api/internal/domain"
)

func TestNewMemoryStateDefaults(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	userID := uuid.New()
	cardID := uuid.New()

	state, err := domain.NewMemoryState(userID, cardID, now)
	require.NoError(t, err)

	assert.Equal(t, userID, state.UserID)
	assert.Equal(t, cardID, state.CardID)
	assert.Equal(t, domain.DefaultEaseFactor, state.EaseFactor)
	assert.Equal(t, domain.DefaultInterval, state.IntervalDays)
	assert.Equal(t, domain.DefaultRepetitions, state.Repetitions)
	assert.Equal(t, now, state.NextReviewAt)
	assert.True(t, state.LastReviewedAt.IsZero())
	assert.False(t, state.Reviewed())
	assert.True(t, state.IsDue(now), "a fresh state is immediately due")
}

func TestNewMemoryStateRequiresIDs(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	_, err := domain.NewMemoryState(uuid.Nil, uuid.New(), now)
	assert.ErrorIs(t, err, domain.ErrMemoryStateUserIDEmpty)

	_, err = domain.NewMemoryState(uuid.New(), uuid.Nil, now)
	assert.ErrorIs(t, err, domain.ErrMemoryStateCardIDEmpty)
}

func TestMemoryStateValidate(t *testing.T) {
	t.Parallel()

	valid := domain.MemoryState{
		UserID:       uuid.New(),
		CardID:       uuid.New(),
		EaseFactor:   2.0,
		IntervalDays: 3,
		Repetitions:  2,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*domain.MemoryState)
		wantErr error
	}{
		{"ease too low", func(s *domain.MemoryState) { s.EaseFactor = 1.2 }, domain.ErrEaseFactorOutOfRange},
		{"ease too high", func(s *domain.MemoryState) { s.EaseFactor = 2.6 }, domain.ErrEaseFactorOutOfRange},
		{"interval zero", func(s *domain.MemoryState) { s.IntervalDays = 0 }, domain.ErrIntervalTooSmall},
		{"interval negative", func(s *domain.MemoryState) { s.IntervalDays = -4 }, domain.ErrIntervalTooSmall},
		{"repetitions negative", func(s *domain.MemoryState) { s.Repetitions = -1 }, domain.ErrRepetitionsNegative},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			state := valid
			tc.mutate(&state)
			assert.ErrorIs(t, state.Validate(), tc.wantErr)
		})
	}
}

func TestMemoryStateIsDueInclusive(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	state := domain.MemoryState{NextReviewAt: now}

	assert.True(t, state.IsDue(now))
	assert.True(t, state.IsDue(now.Add(time.Hour)))
	assert.False(t, state.IsDue(now.Add(-time.Nanosecond)))
}

func TestRatingValidate(t *testing.T) {
	t.Parallel()

	for _, r := range []domain.Rating{
		domain.RatingAgain, domain.RatingHard, domain.RatingGood, domain.RatingEasy,
	} {
		assert.NoError(t, r.Validate())
	}

	assert.ErrorIs(t, domain.Rating("").Validate(), domain.ErrInvalidRating)
	assert.ErrorIs(t, domain.Rating("ok").Validate(), domain.ErrInvalidRating)
	assert.ErrorIs(t, domain.Rating("AGAIN").Validate(), domain.ErrInvalidRating)
}
