package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// CardRow is one imported card: the two sides parsed from a CSV row.
type CardRow struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// CardAppender appends imported cards to a deck. Implemented by the deck
// service; the indirection keeps this package free of a service import.
type CardAppender interface {
	AppendCards(ctx context.Context, userID, deckID uuid.UUID, rows []CardRow) error
}

// ImportPayload is the payload of a deck import task, both as persisted
// with the task record and as carried on the request event that queues it.
type ImportPayload struct {
	UserID uuid.UUID `json:"user_id"`
	DeckID uuid.UUID `json:"deck_id"`
	Rows   []CardRow `json:"rows"`
}

// DeckImportTask creates cards in a deck from rows parsed out of an
// uploaded CSV file.
type DeckImportTask struct {
	id       uuid.UUID
	payload  ImportPayload
	appender CardAppender
	logger   *slog.Logger
}

// Ensure DeckImportTask implements Task
var _ Task = (*DeckImportTask)(nil)

// ID implements Task.ID.
func (t *DeckImportTask) ID() uuid.UUID { return t.id }

// Type implements Task.Type.
func (t *DeckImportTask) Type() string { return TypeDeckImport }

// Payload implements Task.Payload.
func (t *DeckImportTask) Payload() []byte {
	data, err := json.Marshal(t.payload)
	if err != nil {
		// The payload is plain data; marshaling it cannot fail at runtime.
		panic(fmt.Sprintf("marshal deck import payload: %v", err))
	}
	return data
}

// Execute implements Task.Execute.
func (t *DeckImportTask) Execute(ctx context.Context) error {
	t.logger.Info("importing cards",
		slog.String("task_id", t.id.String()),
		slog.String("deck_id", t.payload.DeckID.String()),
		slog.Int("rows", len(t.payload.Rows)))

	if err := t.appender.AppendCards(ctx, t.payload.UserID, t.payload.DeckID, t.payload.Rows); err != nil {
		return fmt.Errorf("failed to append imported cards: %w", err)
	}

	return nil
}

// DeckImportTaskFactory builds DeckImportTasks, both for fresh imports
// and when rebuilding persisted tasks during recovery.
type DeckImportTaskFactory struct {
	appender CardAppender
	logger   *slog.Logger
}

// NewDeckImportTaskFactory creates a factory bound to the given appender.
func NewDeckImportTaskFactory(appender CardAppender, logger *slog.Logger) *DeckImportTaskFactory {
	if appender == nil {
		panic("appender cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckImportTaskFactory{
		appender: appender,
		logger:   logger.With(slog.String("component", "deck_import_task")),
	}
}

// Ensure DeckImportTaskFactory implements Factory
var _ Factory = (*DeckImportTaskFactory)(nil)

// CreateTask builds a new import task for the given deck and rows.
func (f *DeckImportTaskFactory) CreateTask(
	userID, deckID uuid.UUID,
	rows []CardRow,
) (*DeckImportTask, error) {
	if userID == uuid.Nil || deckID == uuid.Nil {
		return nil, fmt.Errorf("user ID and deck ID are required")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows to import")
	}

	return &DeckImportTask{
		id:       uuid.New(),
		payload:  ImportPayload{UserID: userID, DeckID: deckID, Rows: rows},
		appender: f.appender,
		logger:   f.logger,
	}, nil
}

// Rebuild implements Factory.Rebuild.
func (f *DeckImportTaskFactory) Rebuild(record *Record) (Task, error) {
	if record.Type != TypeDeckImport {
		return nil, fmt.Errorf("unexpected task type %q", record.Type)
	}

	var payload ImportPayload
	if err := json.Unmarshal(record.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deck import payload: %w", err)
	}

	return &DeckImportTask{
		id:       record.ID,
		payload:  payload,
		appender: f.appender,
		logger:   f.logger,
	}, nil
}
