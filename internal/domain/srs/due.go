package srs

import (
	"time"

	"github.com/google/uuid"

	"github.com/cramhq/cram-api/internal/domain"
)

// DueCard pairs a card with the memory state that made it due. For cards
// the user has never reviewed, State is a synthesized default that has not
// been persisted.
type DueCard struct {
	Card  domain.Card
	State domain.MemoryState
}

// StateOrDefault returns the persisted state for a card, or a synthesized
// default when none exists. The second return value reports whether the
// state was found in the map. The default is never written back here;
// persistence of a fresh state happens only through the review write path.
func StateOrDefault(
	states map[uuid.UUID]domain.MemoryState,
	userID, cardID uuid.UUID,
	now time.Time,
) (domain.MemoryState, bool) {
	if state, ok := states[cardID]; ok {
		return state, true
	}
	return domain.MemoryState{
		UserID:       userID,
		CardID:       cardID,
		EaseFactor:   domain.DefaultEaseFactor,
		IntervalDays: domain.DefaultInterval,
		Repetitions:  domain.DefaultRepetitions,
		NextReviewAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, false
}

// SelectDue filters cards to those due at the given instant, preserving
// the input order. Cards without a persisted state receive the default
// state, which is due immediately. The due comparison is inclusive: a
// card whose NextReviewAt equals now is due.
//
// No state is mutated or persisted; the caller owns any follow-up writes.
func SelectDue(
	cards []domain.Card,
	states map[uuid.UUID]domain.MemoryState,
	now time.Time,
) []DueCard {
	due := make([]DueCard, 0, len(cards))
	for _, card := range cards {
		state, _ := StateOrDefault(states, card.UserID, card.ID, now)
		if state.IsDue(now) {
			due = append(due, DueCard{Card: card, State: state})
		}
	}
	return due
}
