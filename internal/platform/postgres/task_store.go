package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cramhq/cram-api/internal/task"
)

// TaskStore implements task.Store using PostgreSQL.
type TaskStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTaskStore creates a new PostgreSQL implementation of task.Store.
func NewTaskStore(db *sql.DB, logger *slog.Logger) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements task.Store
var _ task.Store = (*TaskStore)(nil)

// Save implements task.Store.Save.
func (s *TaskStore) Save(ctx context.Context, t task.Task) error {
	query := `
		INSERT INTO tasks (id, task_type, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`

	_, err := s.db.ExecContext(ctx, query,
		t.ID(), t.Type(), t.Payload(), task.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", MapError(err))
	}

	return nil
}

// UpdateStatus implements task.Store.UpdateStatus.
func (s *TaskStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status task.Status,
	errorMessage string,
) error {
	query := `
		UPDATE tasks
		SET status = $2, error_message = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id, status, errorMessage)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", MapError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("task %s not found", id)
	}

	return nil
}

// ListByStatus implements task.Store.ListByStatus.
func (s *TaskStore) ListByStatus(ctx context.Context, status task.Status) ([]*task.Record, error) {
	query := `
		SELECT id, task_type, payload, status, error_message, created_at, updated_at
		FROM tasks
		WHERE status = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var records []*task.Record
	for rows.Next() {
		var record task.Record
		var errorMessage sql.NullString
		if err := rows.Scan(
			&record.ID,
			&record.Type,
			&record.Payload,
			&record.Status,
			&errorMessage,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		record.ErrorMessage = errorMessage.String
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return records, nil
}

// ResetStuck implements task.Store.ResetStuck.
func (s *TaskStore) ResetStuck(ctx context.Context, olderThan time.Duration) (int, error) {
	query := `
		UPDATE tasks
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND updated_at < NOW() - $3::interval
	`

	interval := fmt.Sprintf("%f seconds", olderThan.Seconds())

	result, err := s.db.ExecContext(ctx, query,
		task.StatusPending, task.StatusProcessing, interval)
	if err != nil {
		return 0, fmt.Errorf("failed to reset stuck tasks: %w", MapError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}
