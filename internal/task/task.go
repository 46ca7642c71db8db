package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task type identifiers. They are stored in the task table, so renaming one
// orphans any rows still pending under the old name.
const (
	TypeResolveLemma      = "resolve_lemma"
	TypeEnrichDetails     = "enrich_details"
	TypeTranslateUnit     = "translate_unit"
	TypeValidateUnit      = "validate_lu_integrity"
	TypeVerifyTranslation = "verify_translation_link"
	TypeEnrichPhrase      = "enrich_phrase"
	TypeAnalyzeText       = "analyze_text_and_suggest_words"
	TypeGeneratePhrases   = "generate_phrases"
)

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Payload returns the task data as JSON
	Payload() []byte

	// Execute runs the task logic. A nil error means the outcome in Result is
	// final; a non-nil error is retried unless it is terminal.
	Execute(ctx context.Context) (Result, error)
}

// Record is the persisted form of a task.
type Record struct {
	ID           uuid.UUID  `json:"id"`
	Type         string     `json:"type"`
	Payload      []byte     `json:"-"`
	Status       TaskStatus `json:"status"`
	Attempts     int        `json:"attempts"`
	ErrorMessage string     `json:"error,omitempty"`
	Result       *Result    `json:"result,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TaskQueueReader provides read-only access to the task channel
// allowing workers to consume tasks without the ability to enqueue
type TaskQueueReader interface {
	// GetChannel returns a read-only channel for consuming tasks
	GetChannel() <-chan Task
}

// TaskQueueWriter provides write access to the task queue
// allowing services to enqueue tasks for processing
type TaskQueueWriter interface {
	// Enqueue adds a task to the queue for processing
	// Returns an error if the queue is full or closed
	Enqueue(task Task) error

	// Close closes the task queue, preventing further task submission
	Close()
}

// TaskStore defines the interface for persisting tasks
type TaskStore interface {
	// SaveTask persists a new task in the pending state
	SaveTask(ctx context.Context, task Task) error

	// UpdateTaskStatus updates the status of a task
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error

	// RecordAttempt increments the attempt counter of a task
	RecordAttempt(ctx context.Context, taskID uuid.UUID) error

	// SaveResult stores the final status, result and error of a task
	SaveResult(ctx context.Context, taskID uuid.UUID, status TaskStatus, result *Result, errorMsg string) error

	// GetTask returns the task record, or store.ErrTaskNotFound
	GetTask(ctx context.Context, taskID uuid.UUID) (*Record, error)

	// GetPendingTasks retrieves all tasks with "pending" status
	GetPendingTasks(ctx context.Context) ([]*Record, error)

	// GetProcessingTasks retrieves tasks with "processing" status
	// If olderThan is non-zero, only returns tasks that have been in this state
	// longer than the specified duration
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]*Record, error)
}

// Scheduler enqueues a task of the given type for asynchronous execution
// and returns its handle.
type Scheduler interface {
	Schedule(ctx context.Context, taskType string, payload any) (uuid.UUID, error)
}
