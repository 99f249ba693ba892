package srs_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cramhq/cram-api/internal/domain"
	"github.com/cramhq/cram-api/internal/domain/srs"
)

var reviewTime = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func testState(ease float64, interval, repetitions int) domain.MemoryState {
	return domain.MemoryState{
		UserID:       uuid.New(),
		CardID:       uuid.New(),
		EaseFactor:   ease,
		IntervalDays: interval,
		Repetitions:  repetitions,
		NextReviewAt: reviewTime.AddDate(0, 0, -1),
	}
}

func TestAdvanceUpdateRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		state        domain.MemoryState
		rating       domain.Rating
		wantEase     float64
		wantInterval int
		wantReps     int
	}{
		{
			name:         "first good review uses full ease",
			state:        testState(2.5, 1, 0),
			rating:       domain.RatingGood,
			wantEase:     2.5,
			wantInterval: 3, // round(1 * 2.5)
			wantReps:     1,
		},
		{
			name:         "again resets streak and interval",
			state:        testState(2.5, 6, 2),
			rating:       domain.RatingAgain,
			wantEase:     2.3,
			wantInterval: 1,
			wantReps:     0,
		},
		{
			name:         "hard at minimum ease stays clamped",
			state:        testState(1.3, 10, 5),
			rating:       domain.RatingHard,
			wantEase:     1.3, // max(1.3, 1.15)
			wantInterval: 12,  // round(10 * 1.2)
			wantReps:     6,
		},
		{
			name:         "easy grows interval and ease",
			state:        testState(2.0, 10, 3),
			rating:       domain.RatingEasy,
			wantEase:     2.15,
			wantInterval: 26, // round(10 * 2.0 * 1.3)
			wantReps:     4,
		},
		{
			name:         "easy at maximum ease stays clamped",
			state:        testState(2.5, 4, 1),
			rating:       domain.RatingEasy,
			wantEase:     2.5,
			wantInterval: 13, // round(4 * 2.5 * 1.3)
			wantReps:     2,
		},
		{
			name:         "again after long streak is a hard reset",
			state:        testState(1.4, 120, 9),
			rating:       domain.RatingAgain,
			wantEase:     1.3, // max(1.3, 1.2)
			wantInterval: 1,
			wantReps:     0,
		},
		{
			name:         "good compounds the interval",
			state:        testState(2.5, 3, 1),
			rating:       domain.RatingGood,
			wantEase:     2.5,
			wantInterval: 8, // round(3 * 2.5) = round(7.5), halves round up
			wantReps:     2,
		},
	}

	scheduler := srs.NewDefaultScheduler()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			next, err := scheduler.Advance(tc.state, tc.rating, reviewTime)
			require.NoError(t, err)

			assert.InDelta(t, tc.wantEase, next.EaseFactor, 1e-9)
			assert.Equal(t, tc.wantInterval, next.IntervalDays)
			assert.Equal(t, tc.wantReps, next.Repetitions)
			assert.Equal(t, reviewTime, next.LastReviewedAt)
			assert.Equal(t, reviewTime.AddDate(0, 0, tc.wantInterval), next.NextReviewAt)
		})
	}
}

func TestAdvanceIsPure(t *testing.T) {
	t.Parallel()

	scheduler := srs.NewDefaultScheduler()
	state := testState(2.5, 6, 2)
	before := state

	_, err := scheduler.Advance(state, domain.RatingGood, reviewTime)
	require.NoError(t, err)

	assert.Equal(t, before, state, "input state must not be mutated")
}

func TestAdvanceInvariantsHoldForAllRatings(t *testing.T) {
	t.Parallel()

	scheduler := srs.NewDefaultScheduler()
	ratings := []domain.Rating{
		domain.RatingAgain,
		domain.RatingHard,
		domain.RatingGood,
		domain.RatingEasy,
	}
	states := []domain.MemoryState{
		testState(1.3, 1, 0),
		testState(1.3, 400, 12),
		testState(2.5, 1, 0),
		testState(2.5, 365, 30),
		testState(1.9, 7, 3),
	}

	for _, state := range states {
		for _, rating := range ratings {
			next, err := scheduler.Advance(state, rating, reviewTime)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, next.EaseFactor, domain.MinEaseFactor)
			assert.LessOrEqual(t, next.EaseFactor, domain.MaxEaseFactor)
			assert.GreaterOrEqual(t, next.IntervalDays, domain.MinIntervalDays)
			assert.NoError(t, next.Validate())
		}
	}
}

func TestAdvanceIntervalMonotonicByRating(t *testing.T) {
	t.Parallel()

	scheduler := srs.NewDefaultScheduler()
	states := []domain.MemoryState{
		testState(1.4, 2, 1),
		testState(2.0, 10, 4),
		testState(2.5, 30, 8),
	}

	for _, state := range states {
		hard, err := scheduler.Advance(state, domain.RatingHard, reviewTime)
		require.NoError(t, err)
		good, err := scheduler.Advance(state, domain.RatingGood, reviewTime)
		require.NoError(t, err)
		easy, err := scheduler.Advance(state, domain.RatingEasy, reviewTime)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, easy.IntervalDays, good.IntervalDays)
		assert.GreaterOrEqual(t, good.IntervalDays, hard.IntervalDays)
	}
}

func TestAdvanceHasNoFixedPoint(t *testing.T) {
	t.Parallel()

	// Repeated "good" ratings must keep growing the interval; the only
	// stable values under repetition are the ease clamp boundaries.
	scheduler := srs.NewDefaultScheduler()
	state := testState(2.0, 2, 0)

	for i := 0; i < 5; i++ {
		next, err := scheduler.Advance(state, domain.RatingGood, reviewTime)
		require.NoError(t, err)
		assert.Greater(t, next.IntervalDays, state.IntervalDays)
		state = next
	}
}

func TestAdvanceRepeatedAgainSaturatesEase(t *testing.T) {
	t.Parallel()

	scheduler := srs.NewDefaultScheduler()
	state := testState(2.5, 6, 2)

	for i := 0; i < 10; i++ {
		next, err := scheduler.Advance(state, domain.RatingAgain, reviewTime)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, next.EaseFactor, domain.MinEaseFactor)
		assert.Equal(t, 1, next.IntervalDays)
		assert.Equal(t, 0, next.Repetitions)
		state = next
	}

	assert.InDelta(t, domain.MinEaseFactor, state.EaseFactor, 1e-9)
}

func TestAdvanceRejectsInvalidRating(t *testing.T) {
	t.Parallel()

	scheduler := srs.NewDefaultScheduler()
	state := testState(2.5, 1, 0)

	_, err := scheduler.Advance(state, domain.Rating("perfect"), reviewTime)
	assert.ErrorIs(t, err, srs.ErrInvalidInput)

	_, err = scheduler.Advance(state, domain.Rating(""), reviewTime)
	assert.ErrorIs(t, err, srs.ErrInvalidInput)
}

func TestAdvanceRejectsInvalidState(t *testing.T) {
	t.Parallel()

	scheduler := srs.NewDefaultScheduler()

	tests := []struct {
		name  string
		state domain.MemoryState
	}{
		{"negative interval", testState(2.5, -1, 0)},
		{"zero interval", testState(2.5, 0, 0)},
		{"ease below minimum", testState(1.0, 3, 1)},
		{"ease above maximum", testState(3.0, 3, 1)},
		{"negative repetitions", testState(2.0, 3, -1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := scheduler.Advance(tc.state, domain.RatingGood, reviewTime)
			assert.ErrorIs(t, err, srs.ErrInvalidState)
		})
	}
}

func TestAdvanceUsesCalendarDayArithmetic(t *testing.T) {
	t.Parallel()

	// Crossing a DST transition must still land on the same wall-clock
	// time N days ahead.
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Two days before the 2025 spring-forward transition.
	now := time.Date(2025, 3, 7, 9, 0, 0, 0, loc)

	scheduler := srs.NewDefaultScheduler()
	next, err := scheduler.Advance(testState(2.5, 1, 0), domain.RatingGood, now)
	require.NoError(t, err)

	want := time.Date(2025, 3, 10, 9, 0, 0, 0, loc)
	assert.True(t, next.NextReviewAt.Equal(want),
		"NextReviewAt = %v, want %v", next.NextReviewAt, want)
}

func TestNewSchedulerRejectsInvalidParams(t *testing.T) {
	t.Parallel()

	params := srs.DefaultParams()
	params.MinEaseFactor = 0.5
	_, err := srs.NewScheduler(params)
	assert.ErrorIs(t, err, srs.ErrInvalidParams)

	params = srs.DefaultParams()
	params.HardIntervalMultiplier = 0
	_, err = srs.NewScheduler(params)
	assert.ErrorIs(t, err, srs.ErrInvalidParams)
}
