package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/cramhq/cram-api/internal/domain"
)

// SessionStore defines the interface for study session summaries. Records
// are append-only; there is no update path.
type SessionStore interface {
	// Create appends a session summary.
	Create(ctx context.Context, session *domain.StudySession) error

	// ListByUser retrieves a user's session summaries, most recent first,
	// limited to at most limit rows.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.StudySession, error)
}
