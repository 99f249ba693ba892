package srs

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cramhq/cram-api/internal/domain"
)

// Scheduler errors. ErrInvalidInput is the root of the taxonomy: a rating
// outside the enumeration or a state violating its invariants on entry is
// a caller contract violation, not an environmental condition.
var (
	ErrInvalidInput  = errors.New("invalid scheduler input")
	ErrInvalidState  = fmt.Errorf("%w: memory state", ErrInvalidInput)
	ErrInvalidParams = errors.New("invalid scheduler params")
)

// Scheduler computes the next memory state after a single review. It is
// stateless apart from its parameters and safe for concurrent use.
type Scheduler struct {
	params Params
}

// NewScheduler creates a Scheduler with the given parameters.
// Returns ErrInvalidParams if the parameters are unusable.
func NewScheduler(params Params) (*Scheduler, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Scheduler{params: params}, nil
}

// NewDefaultScheduler creates a Scheduler with DefaultParams.
func NewDefaultScheduler() *Scheduler {
	return &Scheduler{params: DefaultParams()}
}

// Advance computes the memory state after recording the given rating at
// the given instant. The input state is not modified; a new state is
// returned.
//
// The update rule per rating:
//
//	again: interval 1, repetitions reset to 0, ease lowered by the again
//	       penalty. A hard reset regardless of prior streak length.
//	hard:  interval scaled by the hard multiplier, ease lowered by the
//	       hard penalty, streak extended.
//	good:  interval scaled by the ease factor, ease unchanged, streak
//	       extended.
//	easy:  interval scaled by the ease factor and the easy bonus, ease
//	       raised by the easy bonus, streak extended.
//
// Scaled intervals round half away from zero and never drop below one
// day. The ease factor is clamped to [MinEaseFactor, MaxEaseFactor] after
// every update. The next review time is computed with calendar-day
// arithmetic (AddDate), not elapsed seconds, so reviews land on the same
// wall-clock time N days ahead.
func (s *Scheduler) Advance(
	state domain.MemoryState,
	rating domain.Rating,
	now time.Time,
) (domain.MemoryState, error) {
	if err := rating.Validate(); err != nil {
		return domain.MemoryState{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := state.Validate(); err != nil {
		return domain.MemoryState{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	next := state

	switch rating {
	case domain.RatingAgain:
		next.IntervalDays = domain.MinIntervalDays
		next.Repetitions = 0
		next.EaseFactor = s.clampEase(state.EaseFactor - s.params.AgainEasePenalty)

	case domain.RatingHard:
		next.IntervalDays = scaleInterval(state.IntervalDays, s.params.HardIntervalMultiplier)
		next.Repetitions = state.Repetitions + 1
		next.EaseFactor = s.clampEase(state.EaseFactor - s.params.HardEasePenalty)

	case domain.RatingGood:
		next.IntervalDays = scaleInterval(state.IntervalDays, state.EaseFactor)
		next.Repetitions = state.Repetitions + 1

	case domain.RatingEasy:
		next.IntervalDays = scaleInterval(state.IntervalDays, state.EaseFactor*s.params.EasyIntervalBonus)
		next.Repetitions = state.Repetitions + 1
		next.EaseFactor = s.clampEase(state.EaseFactor + s.params.EasyEaseBonus)
	}

	next.LastReviewedAt = now
	next.NextReviewAt = now.AddDate(0, 0, next.IntervalDays)
	next.UpdatedAt = now

	return next, nil
}

// clampEase bounds an ease factor to the configured range.
func (s *Scheduler) clampEase(ease float64) float64 {
	if ease < s.params.MinEaseFactor {
		return s.params.MinEaseFactor
	}
	if ease > s.params.MaxEaseFactor {
		return s.params.MaxEaseFactor
	}
	return ease
}

// scaleInterval multiplies an interval by a factor, rounding half away
// from zero and flooring the result at one day.
func scaleInterval(days int, factor float64) int {
	scaled := int(math.Round(float64(days) * factor))
	if scaled < domain.MinIntervalDays {
		return domain.MinIntervalDays
	}
	return scaled
}
