package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cramhq/cram-api/internal/domain"
	"github.com/cramhq/cram-api/internal/store"
)

// DeckStore implements store.DeckStore using PostgreSQL.
type DeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewDeckStore creates a new PostgreSQL implementation of the DeckStore
// interface. If logger is nil, the slog default is used.
func NewDeckStore(db store.DBTX, logger *slog.Logger) *DeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure DeckStore implements store.DeckStore
var _ store.DeckStore = (*DeckStore)(nil)

// WithTx implements store.DeckStore.WithTx.
func (s *DeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &DeckStore{db: tx, logger: s.logger}
}

// Create implements store.DeckStore.Create.
func (s *DeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		INSERT INTO decks (id, user_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		deck.ID, deck.UserID, deck.Name, deck.Description, deck.CreatedAt, deck.UpdatedAt)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// GetByID implements store.DeckStore.GetByID.
func (s *DeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	const query = `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM decks
		WHERE id = $1`

	var deck domain.Deck
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&deck.ID, &deck.UserID, &deck.Name, &deck.Description,
		&deck.CreatedAt, &deck.UpdatedAt)
	if err != nil {
		if errors.Is(MapError(err), store.ErrNotFound) {
			return nil, store.ErrDeckNotFound
		}
		return nil, MapError(err)
	}

	return &deck, nil
}

// ListByUser implements store.DeckStore.ListByUser.
func (s *DeckStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error) {
	const query = `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM decks
		WHERE user_id = $1
		ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var decks []*domain.Deck
	for rows.Next() {
		var deck domain.Deck
		if err := rows.Scan(
			&deck.ID, &deck.UserID, &deck.Name, &deck.Description,
			&deck.CreatedAt, &deck.UpdatedAt); err != nil {
			return nil, MapError(err)
		}
		decks = append(decks, &deck)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return decks, nil
}

// Update implements store.DeckStore.Update.
func (s *DeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		UPDATE decks
		SET name = $2, description = $3, updated_at = $4
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query,
		deck.ID, deck.Name, deck.Description, deck.UpdatedAt)
	if err != nil {
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrDeckNotFound
	}

	return nil
}

// Delete implements store.DeckStore.Delete. Cards and memory state are
// removed by ON DELETE CASCADE.
func (s *DeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM decks WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrDeckNotFound
	}

	return nil
}
