package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cramhq/cram-api/internal/events"
)

// EventHandler turns task request events into submitted tasks. It is the
// bridge between services, which only emit events, and the runner.
type EventHandler struct {
	runner        *Runner
	importFactory *DeckImportTaskFactory
	logger        *slog.Logger
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(
	runner *Runner,
	importFactory *DeckImportTaskFactory,
	logger *slog.Logger,
) *EventHandler {
	if runner == nil {
		panic("runner cannot be nil")
	}
	if importFactory == nil {
		panic("importFactory cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EventHandler{
		runner:        runner,
		importFactory: importFactory,
		logger:        logger.With(slog.String("component", "task_event_handler")),
	}
}

// Ensure EventHandler implements events.Handler
var _ events.Handler = (*EventHandler)(nil)

// HandleEvent implements events.Handler. Events with an unknown task type
// are logged and dropped rather than failing the emit.
func (h *EventHandler) HandleEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	switch event.Type {
	case TypeDeckImport:
		var payload ImportPayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to unmarshal deck import payload: %w", err)
		}

		t, err := h.importFactory.CreateTask(payload.UserID, payload.DeckID, payload.Rows)
		if err != nil {
			return fmt.Errorf("failed to create deck import task: %w", err)
		}

		return h.runner.Submit(ctx, t)

	default:
		h.logger.Warn("ignoring event with unknown task type",
			slog.String("event_id", event.ID.String()),
			slog.String("task_type", event.Type))
		return nil
	}
}
