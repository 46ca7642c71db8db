package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
)

// ErrNoHandlers is returned when an event is emitted before any handler is
// registered.
var ErrNoHandlers = errors.New("no event handlers registered")

// Scheduler turns schedule calls into task request events. It satisfies
// task.Scheduler.
type Scheduler struct {
	emitter EventEmitter
	logger  *slog.Logger
}

// NewScheduler creates a Scheduler that emits through emitter.
func NewScheduler(emitter EventEmitter, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		emitter: emitter,
		logger:  logger.With("component", "task_scheduler"),
	}
}

// Schedule emits a request for taskType and returns the handle under which
// the task's status can be queried.
func (s *Scheduler) Schedule(ctx context.Context, taskType string, payload any) (uuid.UUID, error) {
	event, err := NewTaskRequestEvent(taskType, payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode %s payload: %w", taskType, err)
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		return uuid.Nil, fmt.Errorf("failed to schedule %s: %w", taskType, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("task scheduled",
		"task_id", event.ID,
		"task_type", taskType)
	return event.ID, nil
}
