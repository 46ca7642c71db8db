package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/task"
)

type pendingTask struct {
	taskType string
	payload  any
}

// triggers collects the tasks implied by a write. They are flushed once the
// write has committed so a rolled back transaction schedules nothing.
type triggers []pendingTask

func (t *triggers) validateUnit(id uuid.UUID) {
	*t = append(*t, pendingTask{task.TypeValidateUnit, task.UnitPayload{UnitID: id}})
}

func (t *triggers) verifyTranslation(id uuid.UUID) {
	*t = append(*t, pendingTask{task.TypeVerifyTranslation, task.TranslationPayload{TranslationID: id}})
}

func (t *triggers) enrichPhrase(id uuid.UUID) {
	*t = append(*t, pendingTask{task.TypeEnrichPhrase, task.PhrasePayload{PhraseID: id}})
}

// flush schedules every collected task. Failures are logged and skipped.
func (t triggers) flush(ctx context.Context, scheduler task.Scheduler, fallback *slog.Logger) {
	log := logger.FromContextOrDefault(ctx, fallback)
	for _, p := range t {
		id, err := scheduler.Schedule(ctx, p.taskType, p.payload)
		if err != nil {
			log.Error("failed to schedule follow-up task",
				"task_type", p.taskType,
				"error", err)
			continue
		}
		log.Debug("scheduled follow-up task",
			"task_type", p.taskType,
			"task_id", id)
	}
}
