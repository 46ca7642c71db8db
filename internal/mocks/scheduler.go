package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// ScheduledTask is one recorded Schedule call.
type ScheduledTask struct {
	ID      uuid.UUID
	Type    string
	Payload any
}

// MockScheduler implements task.Scheduler and records every call.
type MockScheduler struct {
	ScheduleFn func(ctx context.Context, taskType string, payload any) (uuid.UUID, error)

	// Err is returned when ScheduleFn is nil. Failed calls are still recorded.
	Err error

	mu    sync.Mutex
	tasks []ScheduledTask
}

// Schedule implements task.Scheduler
func (m *MockScheduler) Schedule(ctx context.Context, taskType string, payload any) (uuid.UUID, error) {
	id, err := uuid.New(), m.Err
	if m.ScheduleFn != nil {
		id, err = m.ScheduleFn(ctx, taskType, payload)
	}

	m.mu.Lock()
	m.tasks = append(m.tasks, ScheduledTask{ID: id, Type: taskType, Payload: payload})
	m.mu.Unlock()

	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Scheduled returns a copy of every recorded call.
func (m *MockScheduler) Scheduled() []ScheduledTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ScheduledTask, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// OfType returns the recorded calls with the given task type.
func (m *MockScheduler) OfType(taskType string) []ScheduledTask {
	var out []ScheduledTask
	for _, t := range m.Scheduled() {
		if t.Type == taskType {
			out = append(out, t)
		}
	}
	return out
}

// Reset forgets the recorded calls.
func (m *MockScheduler) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = nil
}
