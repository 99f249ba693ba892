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

// CardStore implements store.CardStore using PostgreSQL.
type CardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCardStore creates a new PostgreSQL implementation of the CardStore
// interface. If logger is nil, the slog default is used.
func NewCardStore(db store.DBTX, logger *slog.Logger) *CardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure CardStore implements store.CardStore
var _ store.CardStore = (*CardStore)(nil)

// WithTx implements store.CardStore.WithTx.
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &CardStore{db: tx, logger: s.logger}
}

const cardColumns = `id, user_id, deck_id, front, back, position, created_at, updated_at`

// Create implements store.CardStore.Create.
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		INSERT INTO cards (id, user_id, deck_id, front, back, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		card.ID, card.UserID, card.DeckID, card.Front, card.Back,
		card.Position, card.CreatedAt, card.UpdatedAt)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// CreateMultiple implements store.CardStore.CreateMultiple.
func (s *CardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	for _, card := range cards {
		if err := s.Create(ctx, card); err != nil {
			return fmt.Errorf("failed to create card at position %d: %w", card.Position, err)
		}
	}
	return nil
}

// GetByID implements store.CardStore.GetByID.
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	var card domain.Card
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID, &card.UserID, &card.DeckID, &card.Front, &card.Back,
		&card.Position, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		if errors.Is(MapError(err), store.ErrNotFound) {
			return nil, store.ErrCardNotFound
		}
		return nil, MapError(err)
	}

	return &card, nil
}

// ListByDeck implements store.CardStore.ListByDeck. Cards come back in
// their persisted deck order.
func (s *CardStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE deck_id = $1 ORDER BY position`

	rows, err := s.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var cards []*domain.Card
	for rows.Next() {
		var card domain.Card
		if err := rows.Scan(
			&card.ID, &card.UserID, &card.DeckID, &card.Front, &card.Back,
			&card.Position, &card.CreatedAt, &card.UpdatedAt); err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, &card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return cards, nil
}

// Update implements store.CardStore.Update.
func (s *CardStore) Update(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		UPDATE cards
		SET front = $2, back = $3, position = $4, updated_at = $5
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query,
		card.ID, card.Front, card.Back, card.Position, card.UpdatedAt)
	if err != nil {
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrCardNotFound
	}

	return nil
}

// Delete implements store.CardStore.Delete. Memory state rows are removed
// by ON DELETE CASCADE.
func (s *CardStore) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM cards WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrCardNotFound
	}

	return nil
}

// NextPosition implements store.CardStore.NextPosition.
func (s *CardStore) NextPosition(ctx context.Context, deckID uuid.UUID) (int, error) {
	const query = `
		SELECT COALESCE(MAX(position) + 1, 0)
		FROM cards
		WHERE deck_id = $1`

	var position int
	if err := s.db.QueryRowContext(ctx, query, deckID).Scan(&position); err != nil {
		return 0, MapError(err)
	}

	return position, nil
}
