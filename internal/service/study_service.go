package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cramhq/cram-api/internal/domain"
	"github.com/cramhq/cram-api/internal/domain/srs"
	"github.com/cramhq/cram-api/internal/platform/logger"
	"github.com/cramhq/cram-api/internal/store"
)

// StudyService provides the study flow: selecting due cards, recording
// review outcomes, and logging finished sessions.
type StudyService interface {
	// GetDueCards returns the cards of a deck that are due for review now,
	// in deck order. Cards never reviewed are due immediately.
	GetDueCards(ctx context.Context, userID, deckID uuid.UUID) ([]srs.DueCard, error)

	// SubmitReview records one review outcome: it advances the card's
	// memory state per the rating and persists the result. Returns the
	// new state.
	SubmitReview(ctx context.Context, userID, cardID uuid.UUID, rating domain.Rating) (*domain.MemoryState, error)

	// LogSession appends a finished session summary to the user's history.
	LogSession(ctx context.Context, session *domain.StudySession) error

	// ListSessions returns the user's most recent session summaries.
	ListSessions(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.StudySession, error)
}

// studyServiceImpl implements the StudyService interface.
type studyServiceImpl struct {
	db        *sql.DB
	decks     store.DeckStore
	cards     store.CardStore
	states    store.MemoryStateStore
	sessions  store.SessionStore
	scheduler *srs.Scheduler
	timeFunc  func() time.Time // Injectable for testing
	runInTx   func(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error
	logger    *slog.Logger
}

// NewStudyService creates a new StudyService.
// Panics if any required dependency is nil.
func NewStudyService(
	db *sql.DB,
	decks store.DeckStore,
	cards store.CardStore,
	states store.MemoryStateStore,
	sessions store.SessionStore,
	scheduler *srs.Scheduler,
	log *slog.Logger,
) StudyService {
	if decks == nil || cards == nil || states == nil || sessions == nil {
		panic("stores cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &studyServiceImpl{
		db:        db,
		decks:     decks,
		cards:     cards,
		states:    states,
		sessions:  sessions,
		scheduler: scheduler,
		timeFunc:  time.Now,
		runInTx:   store.RunInTx,
		logger:    log.With(slog.String("component", "study_service")),
	}
}

// GetDueCards implements StudyService.GetDueCards.
func (s *studyServiceImpl) GetDueCards(
	ctx context.Context,
	userID, deckID uuid.UUID,
) ([]srs.DueCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.UserID != userID {
		return nil, ErrNotOwned
	}

	cards, err := s.cards.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	states, err := s.states.GetByDeck(ctx, userID, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to load memory states: %w", err)
	}

	ordered := make([]domain.Card, 0, len(cards))
	for _, card := range cards {
		ordered = append(ordered, *card)
	}

	now := s.timeFunc()
	due := srs.SelectDue(ordered, states, now)

	log.Debug("selected due cards",
		slog.String("deck_id", deckID.String()),
		slog.Int("deck_size", len(cards)),
		slog.Int("due", len(due)))

	return due, nil
}

// SubmitReview implements StudyService.SubmitReview. The card lookup, the
// state read, and the state write run in one transaction so concurrent
// reviews of the same card cannot interleave their read-modify-write.
func (s *studyServiceImpl) SubmitReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	rating domain.Rating,
) (*domain.MemoryState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := rating.Validate(); err != nil {
		return nil, err
	}

	now := s.timeFunc()
	var next domain.MemoryState

	err := s.runInTx(ctx, s.db, func(tx *sql.Tx) error {
		txCards := s.cards.WithTx(tx)
		txStates := s.states.WithTx(tx)

		card, err := txCards.GetByID(ctx, cardID)
		if err != nil {
			return err
		}
		if card.UserID != userID {
			return ErrNotOwned
		}

		current, err := txStates.Get(ctx, userID, cardID)
		switch {
		case err == nil:
		case errors.Is(err, store.ErrMemoryStateNotFound):
			// First review of this card: advance from the default state.
			fresh, _ := srs.StateOrDefault(nil, userID, cardID, now)
			current = &fresh
		default:
			return fmt.Errorf("failed to load memory state: %w", err)
		}

		next, err = s.scheduler.Advance(*current, rating, now)
		if err != nil {
			return err
		}
		next.CreatedAt = current.CreatedAt

		if err := txStates.Upsert(ctx, &next); err != nil {
			return fmt.Errorf("failed to persist memory state: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("review recorded",
		slog.String("card_id", cardID.String()),
		slog.String("rating", string(rating)),
		slog.Int("interval_days", next.IntervalDays),
		slog.Int("repetitions", next.Repetitions))

	return &next, nil
}

// LogSession implements StudyService.LogSession.
func (s *studyServiceImpl) LogSession(ctx context.Context, session *domain.StudySession) error {
	if err := session.Validate(); err != nil {
		return err
	}

	deck, err := s.decks.GetByID(ctx, session.DeckID)
	if err != nil {
		return err
	}
	if deck.UserID != session.UserID {
		return ErrNotOwned
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// ListSessions implements StudyService.ListSessions.
func (s *studyServiceImpl) ListSessions(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.StudySession, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.sessions.ListByUser(ctx, userID, limit)
}
