package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/cramhq/cram-api/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a new card.
	Create(ctx context.Context, card *domain.Card) error

	// CreateMultiple saves multiple cards. Callers that need atomicity run
	// it inside a transaction via WithTx.
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByDeck retrieves all cards of a deck ordered by their position.
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)

	// Update modifies an existing card's sides and position.
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// Delete removes a card and its memory state.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// NextPosition returns the position for a card appended to the deck:
	// one past the current maximum, or zero for an empty deck.
	NextPosition(ctx context.Context, deckID uuid.UUID) (int, error)

	// WithTx returns a CardStore bound to the given transaction.
	WithTx(tx *sql.Tx) CardStore
}
