package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lingo-api/internal/events"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
)

// Submitter persists and queues a built task. *Runner satisfies it.
type Submitter interface {
	Submit(ctx context.Context, task Task) error
}

// EventHandler turns task request events into submitted tasks. The event id
// becomes the task id, so the handle a Scheduler returned can be polled.
type EventHandler struct {
	registry  *Registry
	submitter Submitter
	logger    *slog.Logger
}

var _ events.EventHandler = (*EventHandler)(nil)

// NewEventHandler creates an event handler that builds tasks from registry
// and hands them to submitter.
func NewEventHandler(registry *Registry, submitter Submitter, logger *slog.Logger) *EventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventHandler{
		registry:  registry,
		submitter: submitter,
		logger:    logger.With("component", "task_event_handler"),
	}
}

// HandleEvent builds and submits the requested task. A full queue is not an
// error: the task is already stored as pending and will be picked up by the
// runner's recovery.
func (h *EventHandler) HandleEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	log := logger.FromContextOrDefault(ctx, h.logger)

	task, err := h.registry.Build(event.ID, event.Type, event.Payload)
	if err != nil {
		log.Error("failed to build task from event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return fmt.Errorf("failed to build task: %w", err)
	}

	if err := h.submitter.Submit(ctx, task); err != nil {
		if errors.Is(err, ErrQueueFull) {
			log.Warn("task queue full; task left pending",
				"task_id", task.ID(),
				"task_type", task.Type())
			return nil
		}
		log.Error("failed to submit task",
			"task_id", task.ID(),
			"task_type", task.Type(),
			"error", err)
		return fmt.Errorf("failed to submit task: %w", err)
	}

	log.Debug("task submitted from event",
		"task_id", task.ID(),
		"task_type", task.Type())
	return nil
}
