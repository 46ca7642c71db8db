package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/api/shared"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/service"
)

// TaskHandler serves text analysis and task status.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(tasks service.TaskService, log *slog.Logger) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: log.With(slog.String("component", "task_handler")),
	}
}

// AnalyzeText handles POST /analyze-text.
func (h *TaskHandler) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserIDFromContext(w, r, h.logger)
	if !ok {
		return
	}
	var req AnalyzeTextRequest
	if !parseAndValidateRequest(w, r, &req, h.logger) {
		return
	}
	taskID, err := h.tasks.AnalyzeText(r.Context(), userID, req.Text, req.Language)
	respondTaskAccepted(w, r, taskID, err, "Text analysis started.")
}

// GetTask handles GET /tasks/{id}. Task IDs are unguessable and carry no
// user content beyond their result, so any authenticated caller may poll.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := handlePathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	rec, err := h.tasks.Status(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task status")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, rec)
}

// respondTaskAccepted writes 202 with the queued task's ID, or the mapped
// error when scheduling was rejected.
func respondTaskAccepted(w http.ResponseWriter, r *http.Request, taskID uuid.UUID, err error, message string) {
	if err != nil {
		HandleAPIError(w, r, err, "Failed to queue task.")
		return
	}
	logger.FromContext(r.Context()).Debug("task accepted", "task_id", taskID)
	shared.RespondWithJSON(w, r, http.StatusAccepted, TaskAcceptedResponse{
		Message: message,
		TaskID:  taskID,
	})
}
