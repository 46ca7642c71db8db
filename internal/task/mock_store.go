package task

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/store"
)

// MockTaskStore is an in-memory TaskStore for tests. The Fn fields, when
// set, replace the default behavior of the matching method.
type MockTaskStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Record

	SaveFn         func(ctx context.Context, task Task) error
	UpdateStatusFn func(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error
}

var _ TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates an empty MockTaskStore.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{records: make(map[uuid.UUID]*Record)}
}

// SaveTask stores the task as pending.
func (s *MockTaskStore) SaveTask(ctx context.Context, task Task) error {
	if s.SaveFn != nil {
		return s.SaveFn(ctx, task)
	}
	now := time.Now().UTC()
	s.Put(&Record{
		ID:        task.ID(),
		Type:      task.Type(),
		Payload:   task.Payload(),
		Status:    TaskStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return nil
}

// Put inserts or replaces a record as-is, for seeding test state.
func (s *MockTaskStore) Put(rec *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.records[rec.ID] = &cp
}

// UpdateTaskStatus sets the status and error message of a stored task.
func (s *MockTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status TaskStatus,
	errorMsg string,
) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, taskID, status, errorMsg)
	}
	return s.update(taskID, func(rec *Record) {
		rec.Status = status
		rec.ErrorMessage = errorMsg
	})
}

// RecordAttempt increments the attempt counter.
func (s *MockTaskStore) RecordAttempt(_ context.Context, taskID uuid.UUID) error {
	return s.update(taskID, func(rec *Record) {
		rec.Attempts++
	})
}

// SaveResult stores the final state of a task.
func (s *MockTaskStore) SaveResult(
	_ context.Context,
	taskID uuid.UUID,
	status TaskStatus,
	result *Result,
	errorMsg string,
) error {
	return s.update(taskID, func(rec *Record) {
		rec.Status = status
		rec.Result = result
		rec.ErrorMessage = errorMsg
	})
}

// GetTask returns a copy of the stored record.
func (s *MockTaskStore) GetTask(_ context.Context, taskID uuid.UUID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[taskID]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	cp := *rec
	return &cp, nil
}

// GetPendingTasks returns pending records, oldest first.
func (s *MockTaskStore) GetPendingTasks(_ context.Context) ([]*Record, error) {
	return s.byStatus(TaskStatusPending, 0), nil
}

// GetProcessingTasks returns processing records not updated within
// olderThan.
func (s *MockTaskStore) GetProcessingTasks(_ context.Context, olderThan time.Duration) ([]*Record, error) {
	return s.byStatus(TaskStatusProcessing, olderThan), nil
}

func (s *MockTaskStore) update(taskID uuid.UUID, fn func(rec *Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[taskID]
	if !ok {
		return store.ErrTaskNotFound
	}
	fn(rec)
	rec.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MockTaskStore) byStatus(status TaskStatus, olderThan time.Duration) []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	var out []*Record
	for _, rec := range s.records {
		if rec.Status != status {
			continue
		}
		if olderThan > 0 && rec.UpdatedAt.After(cutoff) {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
