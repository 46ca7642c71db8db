package task

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/lingo-api/internal/events"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// submitterFunc adapts a function to Submitter.
type submitterFunc func(ctx context.Context, task Task) error

func (f submitterFunc) Submit(ctx context.Context, task Task) error {
	return f(ctx, task)
}

func TestEventHandler_HandleEvent(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register(TypeValidateUnit, NoRetry(), HandlerFunc(
		func(context.Context, []byte) (Result, error) { return OK(nil), nil })))

	newEvent := func(t *testing.T, taskType string) *events.TaskRequestEvent {
		t.Helper()
		event, err := events.NewTaskRequestEvent(taskType, map[string]string{"unit_id": "x"})
		require.NoError(t, err)
		return event
	}

	t.Run("builds the task under the event id", func(t *testing.T) {
		t.Parallel()
		var submitted Task
		handler := NewEventHandler(reg, submitterFunc(func(_ context.Context, task Task) error {
			submitted = task
			return nil
		}), logger.Discard())

		event := newEvent(t, TypeValidateUnit)
		require.NoError(t, handler.HandleEvent(context.Background(), event))

		require.NotNil(t, submitted)
		assert.Equal(t, event.ID, submitted.ID())
		assert.Equal(t, TypeValidateUnit, submitted.Type())
		assert.JSONEq(t, string(event.Payload), string(submitted.Payload()))
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()
		handler := NewEventHandler(reg, submitterFunc(func(context.Context, Task) error {
			t.Fatal("nothing should be submitted")
			return nil
		}), logger.Discard())

		err := handler.HandleEvent(context.Background(), newEvent(t, "memo_generation"))
		assert.ErrorIs(t, err, ErrUnknownTaskType)
	})

	t.Run("full queue is tolerated", func(t *testing.T) {
		t.Parallel()
		handler := NewEventHandler(reg, submitterFunc(func(context.Context, Task) error {
			return fmt.Errorf("%w: capacity 1", ErrQueueFull)
		}), logger.Discard())

		assert.NoError(t, handler.HandleEvent(context.Background(), newEvent(t, TypeValidateUnit)))
	})

	t.Run("store failure propagates", func(t *testing.T) {
		t.Parallel()
		handler := NewEventHandler(reg, submitterFunc(func(context.Context, Task) error {
			return errors.New("db down")
		}), logger.Discard())

		err := handler.HandleEvent(context.Background(), newEvent(t, TypeValidateUnit))
		assert.ErrorContains(t, err, "db down")
	})
}

func TestEventHandler_WithScheduler(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register(TypeEnrichPhrase, NoRetry(), HandlerFunc(
		func(context.Context, []byte) (Result, error) { return OK(nil), nil })))

	store := NewMockTaskStore()
	runner := NewRunner(store, reg, testRunnerConfig(), logger.Discard())
	t.Cleanup(runner.Stop)

	emitter := events.NewInMemoryEventEmitter(logger.Discard())
	emitter.RegisterHandler(NewEventHandler(reg, runner, logger.Discard()))
	scheduler := events.NewScheduler(emitter, logger.Discard())

	id, err := scheduler.Schedule(context.Background(), TypeEnrichPhrase, PhrasePayload{})
	require.NoError(t, err)

	rec, err := store.GetTask(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, TypeEnrichPhrase, rec.Type)
	assert.Equal(t, TaskStatusPending, rec.Status)
}
