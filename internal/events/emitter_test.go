package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cramhq/cram-api/internal/events"
)

type recordingHandler struct {
	seen []*events.TaskRequestEvent
	err  error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *events.TaskRequestEvent) error {
	h.seen = append(h.seen, event)
	return h.err
}

func TestEmitEventDeliversToAllHandlers(t *testing.T) {
	t.Parallel()

	emitter := events.NewInMemoryEmitter(nil)
	first := &recordingHandler{}
	second := &recordingHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	event, err := events.NewTaskRequestEvent("deck_import", map[string]string{"deck_id": "x"})
	require.NoError(t, err)

	require.NoError(t, emitter.EmitEvent(context.Background(), event))
	assert.Len(t, first.seen, 1)
	assert.Len(t, second.seen, 1)
}

func TestEmitEventContinuesPastFailingHandler(t *testing.T) {
	t.Parallel()

	emitter := events.NewInMemoryEmitter(nil)
	failing := &recordingHandler{err: errors.New("boom")}
	healthy := &recordingHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(healthy)

	event, err := events.NewTaskRequestEvent("deck_import", nil)
	require.NoError(t, err)

	err = emitter.EmitEvent(context.Background(), event)
	assert.EqualError(t, err, "boom")
	assert.Len(t, healthy.seen, 1, "failure of one handler must not block others")
}

func TestEmitEventWithoutHandlers(t *testing.T) {
	t.Parallel()

	emitter := events.NewInMemoryEmitter(nil)
	event, err := events.NewTaskRequestEvent("deck_import", nil)
	require.NoError(t, err)

	assert.NoError(t, emitter.EmitEvent(context.Background(), event))
}

func TestUnmarshalPayload(t *testing.T) {
	t.Parallel()

	type payload struct {
		DeckID string `json:"deck_id"`
	}

	event, err := events.NewTaskRequestEvent("deck_import", payload{DeckID: "abc"})
	require.NoError(t, err)

	var decoded payload
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, "abc", decoded.DeckID)
}
