package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/cramhq/cram-api/internal/domain"
)

// MemoryStateStore defines the interface for per-user/card memory state
// persistence.
type MemoryStateStore interface {
	// Get retrieves the memory state for a user/card pair.
	// Returns ErrMemoryStateNotFound if no state has been persisted.
	Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.MemoryState, error)

	// GetByDeck retrieves all memory states a user has for cards of one
	// deck, keyed by card ID. Cards never reviewed have no entry.
	GetByDeck(ctx context.Context, userID, deckID uuid.UUID) (map[uuid.UUID]domain.MemoryState, error)

	// Upsert writes the memory state for a user/card pair, inserting the
	// row if absent. The write is keyed by (user_id, card_id) so a single
	// review updates exactly one row.
	Upsert(ctx context.Context, state *domain.MemoryState) error

	// Delete removes the memory state for a user/card pair.
	// Returns ErrMemoryStateNotFound if no state exists.
	Delete(ctx context.Context, userID, cardID uuid.UUID) error

	// WithTx returns a MemoryStateStore bound to the given transaction.
	WithTx(tx *sql.Tx) MemoryStateStore
}
