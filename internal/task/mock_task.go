package task

import (
	"context"

	"github.com/google/uuid"
)

// MockTask is a Task whose behavior is supplied by ExecuteFn.
type MockTask struct {
	TaskID      uuid.UUID
	TaskType    string
	TaskPayload []byte
	ExecuteFn   func(ctx context.Context) (Result, error)
}

// NewMockTask creates a MockTask that succeeds with an empty OK result.
func NewMockTask(taskType string) *MockTask {
	return &MockTask{
		TaskID:      uuid.New(),
		TaskType:    taskType,
		TaskPayload: []byte("{}"),
		ExecuteFn: func(context.Context) (Result, error) {
			return OK(nil), nil
		},
	}
}

// ID returns the task's unique identifier
func (t *MockTask) ID() uuid.UUID {
	return t.TaskID
}

// Type returns the task type identifier
func (t *MockTask) Type() string {
	return t.TaskType
}

// Payload returns the task data as a byte slice
func (t *MockTask) Payload() []byte {
	return t.TaskPayload
}

// Execute runs ExecuteFn.
func (t *MockTask) Execute(ctx context.Context) (Result, error) {
	return t.ExecuteFn(ctx)
}
