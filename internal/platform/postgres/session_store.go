package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cramhq/cram-api/internal/domain"
	"github.com/cramhq/cram-api/internal/store"
)

// SessionStore implements store.SessionStore using PostgreSQL.
type SessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface. If logger is nil, the slog default is used.
func NewSessionStore(db store.DBTX, logger *slog.Logger) *SessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure SessionStore implements store.SessionStore
var _ store.SessionStore = (*SessionStore)(nil)

// Create implements store.SessionStore.Create.
func (s *SessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		INSERT INTO study_sessions
			(id, user_id, deck_id, mode, cards_studied, correct_count,
			 started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		session.ID, session.UserID, session.DeckID, string(session.Mode),
		session.CardsStudied, session.CorrectCount,
		session.StartedAt, session.FinishedAt)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// ListByUser implements store.SessionStore.ListByUser.
func (s *SessionStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.StudySession, error) {
	const query = `
		SELECT id, user_id, deck_id, mode, cards_studied, correct_count,
		       started_at, finished_at
		FROM study_sessions
		WHERE user_id = $1
		ORDER BY finished_at DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var sessions []*domain.StudySession
	for rows.Next() {
		var (
			session domain.StudySession
			mode    string
		)
		if err := rows.Scan(
			&session.ID, &session.UserID, &session.DeckID, &mode,
			&session.CardsStudied, &session.CorrectCount,
			&session.StartedAt, &session.FinishedAt); err != nil {
			return nil, MapError(err)
		}
		session.Mode = domain.StudyMode(mode)
		sessions = append(sessions, &session)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return sessions, nil
}
