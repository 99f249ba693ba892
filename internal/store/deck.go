package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/cramhq/cram-api/internal/domain"
)

// DeckStore defines the interface for deck data persistence.
type DeckStore interface {
	// Create saves a new deck.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by its unique ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// ListByUser retrieves all decks owned by a user, ordered by creation
	// time.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error)

	// Update modifies an existing deck's name and description.
	// Returns ErrDeckNotFound if the deck does not exist.
	Update(ctx context.Context, deck *domain.Deck) error

	// Delete removes a deck and, through foreign keys, its cards and their
	// memory state. Returns ErrDeckNotFound if the deck does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a DeckStore bound to the given transaction.
	WithTx(tx *sql.Tx) DeckStore
}
