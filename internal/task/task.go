package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status represents the current state of a task.
type Status string

// Possible task status values.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Task type identifiers.
const (
	// TypeDeckImport creates cards in a deck from parsed CSV rows.
	TypeDeckImport = "deck_import"
)

// Task represents a unit of background work.
type Task interface {
	// ID returns the task's unique identifier.
	ID() uuid.UUID

	// Type returns the task type identifier.
	Type() string

	// Payload returns the task data as JSON.
	Payload() []byte

	// Execute runs the task logic.
	Execute(ctx context.Context) error
}

// Record is the persisted form of a task, as stored and recovered from
// the database.
type Record struct {
	ID           uuid.UUID
	Type         string
	Payload      []byte
	Status       Status
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store defines the interface for persisting tasks.
type Store interface {
	// Save persists a new task with StatusPending.
	Save(ctx context.Context, t Task) error

	// UpdateStatus updates the status of a task, recording an error
	// message for failed tasks.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, errorMessage string) error

	// ListByStatus retrieves all task records with the given status.
	ListByStatus(ctx context.Context, status Status) ([]*Record, error)

	// ResetStuck moves processing tasks older than the given age back to
	// pending and returns how many were reset.
	ResetStuck(ctx context.Context, olderThan time.Duration) (int, error)
}

// Factory rebuilds an executable Task from its persisted record, used
// when recovering tasks after a restart.
type Factory interface {
	// Rebuild constructs a Task from a persisted record.
	Rebuild(record *Record) (Task, error)
}
