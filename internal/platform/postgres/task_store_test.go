package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/platform/postgres"
	"github.com/phrazzld/lingo-api/internal/store"
	"github.com/phrazzld/lingo-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskColumnNames = []string{
	"id", "type", "payload", "status", "attempts", "error_message", "result", "created_at", "updated_at",
}

type stubTask struct {
	id      uuid.UUID
	payload []byte
}

func (s stubTask) ID() uuid.UUID { return s.id }
func (s stubTask) Type() string { return task.TypeValidateUnit }
func (s stubTask) Payload() []byte { return s.payload }
func (s stubTask) Execute(context.Context) (task.Result, error) {
	return task.Result{}, nil
}

func TestTaskStore_SaveTask(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	s := postgres.NewPostgresTaskStore(db, logger.Discard())

	tk := stubTask{id: uuid.New(), payload: []byte(`{"unit_id":"x"}`)}
	mock.ExpectExec("INSERT INTO tasks").
		WithArgs(tk.id, task.TypeValidateUnit, `{"unit_id":"x"}`, task.TaskStatusPending, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.SaveTask(context.Background(), tk))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStore_SaveResult(t *testing.T) {
	t.Parallel()

	t.Run("stores the result document", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresTaskStore(db, logger.Discard())

		id := uuid.New()
		mock.ExpectExec("UPDATE tasks").
			WithArgs(task.TaskStatusCompleted, `{"outcome":"ok","data":["run"]}`, "", sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		res := task.OK([]string{"run"})
		require.NoError(t, s.SaveResult(context.Background(), id, task.TaskStatusCompleted, &res, ""))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing task", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresTaskStore(db, logger.Discard())

		mock.ExpectExec("UPDATE tasks").WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.SaveResult(context.Background(), uuid.New(), task.TaskStatusFailed, nil, "boom")
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskStore_GetTask(t *testing.T) {
	t.Parallel()

	t.Run("decodes the result", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresTaskStore(db, logger.Discard())

		id := uuid.New()
		now := time.Now().UTC()
		mock.ExpectQuery("SELECT .* FROM tasks WHERE id = \\$1").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(taskColumnNames).AddRow(
				id.String(), task.TypeVerifyTranslation, []byte(`{}`), "completed", 1, "",
				[]byte(`{"outcome":"mismatch","detail":"score 3"}`), now, now,
			))

		rec, err := s.GetTask(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, task.TaskStatusCompleted, rec.Status)
		assert.Equal(t, 1, rec.Attempts)
		require.NotNil(t, rec.Result)
		assert.Equal(t, task.OutcomeMismatch, rec.Result.Outcome)
		assert.Equal(t, "score 3", rec.Result.Detail)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := postgres.NewPostgresTaskStore(db, logger.Discard())

		mock.ExpectQuery("SELECT .* FROM tasks").WillReturnRows(sqlmock.NewRows(taskColumnNames))

		_, err := s.GetTask(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskStore_GetProcessingTasks_AgeFilter(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	s := postgres.NewPostgresTaskStore(db, logger.Discard())

	mock.ExpectQuery("WHERE status = \\$1 AND updated_at < \\$2").
		WithArgs(task.TaskStatusProcessing, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(taskColumnNames))

	recs, err := s.GetProcessingTasks(context.Background(), time.Minute)
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
