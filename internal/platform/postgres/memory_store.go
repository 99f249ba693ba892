package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cramhq/cram-api/internal/domain"
	"github.com/cramhq/cram-api/internal/store"
)

// MemoryStateStore implements store.MemoryStateStore using PostgreSQL.
type MemoryStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewMemoryStateStore creates a new PostgreSQL implementation of the
// MemoryStateStore interface. If logger is nil, the slog default is used.
func NewMemoryStateStore(db store.DBTX, logger *slog.Logger) *MemoryStateStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "memory_state_store")),
	}
}

// Ensure MemoryStateStore implements store.MemoryStateStore
var _ store.MemoryStateStore = (*MemoryStateStore)(nil)

// WithTx implements store.MemoryStateStore.WithTx.
func (s *MemoryStateStore) WithTx(tx *sql.Tx) store.MemoryStateStore {
	return &MemoryStateStore{db: tx, logger: s.logger}
}

// Get implements store.MemoryStateStore.Get.
func (s *MemoryStateStore) Get(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.MemoryState, error) {
	const query = `
		SELECT user_id, card_id, ease_factor, interval_days, repetitions,
		       last_reviewed_at, next_review_at, created_at, updated_at
		FROM card_memory_states
		WHERE user_id = $1 AND card_id = $2`

	state, err := scanMemoryState(s.db.QueryRowContext(ctx, query, userID, cardID))
	if err != nil {
		if errors.Is(MapError(err), store.ErrNotFound) {
			return nil, store.ErrMemoryStateNotFound
		}
		return nil, MapError(err)
	}

	return state, nil
}

// GetByDeck implements store.MemoryStateStore.GetByDeck.
func (s *MemoryStateStore) GetByDeck(
	ctx context.Context,
	userID, deckID uuid.UUID,
) (map[uuid.UUID]domain.MemoryState, error) {
	const query = `
		SELECT m.user_id, m.card_id, m.ease_factor, m.interval_days, m.repetitions,
		       m.last_reviewed_at, m.next_review_at, m.created_at, m.updated_at
		FROM card_memory_states m
		JOIN cards c ON c.id = m.card_id
		WHERE m.user_id = $1 AND c.deck_id = $2`

	rows, err := s.db.QueryContext(ctx, query, userID, deckID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	states := make(map[uuid.UUID]domain.MemoryState)
	for rows.Next() {
		state, err := scanMemoryState(rows)
		if err != nil {
			return nil, MapError(err)
		}
		states[state.CardID] = *state
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return states, nil
}

// Upsert implements store.MemoryStateStore.Upsert. The write is a single
// row keyed by (user_id, card_id); concurrent reviews of different cards
// never contend.
func (s *MemoryStateStore) Upsert(ctx context.Context, state *domain.MemoryState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		INSERT INTO card_memory_states
			(user_id, card_id, ease_factor, interval_days, repetitions,
			 last_reviewed_at, next_review_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, card_id) DO UPDATE SET
			ease_factor = EXCLUDED.ease_factor,
			interval_days = EXCLUDED.interval_days,
			repetitions = EXCLUDED.repetitions,
			last_reviewed_at = EXCLUDED.last_reviewed_at,
			next_review_at = EXCLUDED.next_review_at,
			updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		state.UserID, state.CardID, state.EaseFactor, state.IntervalDays,
		state.Repetitions, nullableTime(state.LastReviewedAt), state.NextReviewAt,
		state.CreatedAt, state.UpdatedAt)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// Delete implements store.MemoryStateStore.Delete.
func (s *MemoryStateStore) Delete(ctx context.Context, userID, cardID uuid.UUID) error {
	const query = `
		DELETE FROM card_memory_states
		WHERE user_id = $1 AND card_id = $2`

	result, err := s.db.ExecContext(ctx, query, userID, cardID)
	if err != nil {
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrMemoryStateNotFound
	}

	return nil
}

// scanMemoryState reads one memory state row. A NULL last_reviewed_at maps
// to the zero time (never reviewed).
func scanMemoryState(row scanner) (*domain.MemoryState, error) {
	var (
		state          domain.MemoryState
		lastReviewedAt sql.NullTime
	)

	err := row.Scan(
		&state.UserID, &state.CardID, &state.EaseFactor, &state.IntervalDays,
		&state.Repetitions, &lastReviewedAt, &state.NextReviewAt,
		&state.CreatedAt, &state.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if lastReviewedAt.Valid {
		state.LastReviewedAt = lastReviewedAt.Time
	}

	return &state, nil
}

// nullableTime converts the zero time to a SQL NULL.
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
