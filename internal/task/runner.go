package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
)

// RunnerConfig holds configuration for the task runner
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// StuckTaskAge defines how long a task can sit in processing (or in
	// pending without being queued) before it is requeued
	StuckTaskAge time.Duration

	// StuckTaskCheckInterval defines how often to check for stuck tasks
	// If zero, defaults to 5 minutes
	StuckTaskCheckInterval time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:            2,
		QueueSize:              100,
		StuckTaskAge:           30 * time.Minute,
		StuckTaskCheckInterval: 5 * time.Minute,
	}
}

// Runner persists, queues and executes tasks. Every task is written to the
// store before it is queued, so a task that cannot be queued or is
// interrupted by a restart is picked up again by Recover or the stuck-task
// monitor. Delivery is at-least-once.
type Runner struct {
	store    TaskStore
	registry *Registry
	queue    *TaskQueue
	pool     *WorkerPool
	config   RunnerConfig
	logger   *slog.Logger

	// queued holds ids that are in the queue or executing, so the monitor
	// does not queue them a second time.
	queued sync.Map

	monitorCtx    context.Context
	monitorCancel context.CancelFunc
	wg            sync.WaitGroup
	stopOnce      sync.Once

	errHandler func(task Task, err error)
}

// NewRunner creates a Runner that executes the task types in registry.
func NewRunner(store TaskStore, registry *Registry, config RunnerConfig, logger *slog.Logger) *Runner {
	if config.StuckTaskCheckInterval == 0 {
		config.StuckTaskCheckInterval = 5 * time.Minute
	}
	log := logger.With(slog.String("component", "task_runner"))

	queue := NewTaskQueue(config.QueueSize, log)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: config.WorkerCount}, log)

	ctx, cancel := context.WithCancel(context.Background())

	r := &Runner{
		store:         store,
		registry:      registry,
		queue:         queue,
		pool:          pool,
		config:        config,
		logger:        log,
		monitorCtx:    ctx,
		monitorCancel: cancel,
		errHandler: func(task Task, err error) {
			log.Error("task execution failed",
				"task_id", task.ID(),
				"task_type", task.Type(),
				"error", err)
		},
	}
	pool.SetErrorHandler(func(task Task, err error) {
		r.fail(context.Background(), task, err)
	})
	return r
}

// SetErrorHandler allows setting a custom error handler function
func (r *Runner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// Submit persists the task and queues it for execution. If the queue is
// full the task stays pending in the store and the error wraps ErrQueueFull.
func (r *Runner) Submit(ctx context.Context, task Task) error {
	if err := r.store.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	if err := r.enqueue(task); err != nil {
		logger.FromContextOrDefault(ctx, r.logger).Warn("task saved but not queued",
			"task_id", task.ID(),
			"task_type", task.Type(),
			"error", err)
		return err
	}
	return nil
}

// Schedule builds a task from the registry and submits it. A full queue is
// not reported as an error because the stored task will be picked up later.
func (r *Runner) Schedule(ctx context.Context, taskType string, payload any) (uuid.UUID, error) {
	task, err := r.registry.NewTask(taskType, payload)
	if err != nil {
		return uuid.Nil, err
	}
	if err := r.Submit(ctx, task); err != nil && !errors.Is(err, ErrQueueFull) {
		return uuid.Nil, err
	}
	return task.ID(), nil
}

// Start recovers unfinished tasks, starts the workers and the stuck-task
// monitor.
func (r *Runner) Start(ctx context.Context) error {
	if err := r.Recover(ctx); err != nil {
		return fmt.Errorf("failed to recover tasks: %w", err)
	}

	r.pool.Start(r.processTask)

	r.wg.Add(1)
	go r.stuckTaskMonitor()

	return nil
}

// Stop gracefully shuts down the runner. In-flight tasks see their context
// cancelled and are returned to pending.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		r.monitorCancel()
		r.wg.Wait()
		r.pool.Stop()
		r.queue.Close()
	})
}

// Recover requeues tasks left unfinished by a previous run. Tasks found in
// processing are reset to pending first.
func (r *Runner) Recover(ctx context.Context) error {
	pending, err := r.store.GetPendingTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending tasks: %w", err)
	}

	processing, err := r.store.GetProcessingTasks(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks",
		"pending_count", len(pending),
		"processing_count", len(processing))

	for _, rec := range pending {
		r.requeue(ctx, rec)
	}

	for _, rec := range processing {
		if err := r.store.UpdateTaskStatus(ctx, rec.ID, TaskStatusPending, "Reset after recovery"); err != nil {
			r.logger.Error("failed to reset processing task status",
				"task_id", rec.ID,
				"task_type", rec.Type,
				"error", err)
			continue
		}
		r.requeue(ctx, rec)
	}

	return nil
}

func (r *Runner) enqueue(task Task) error {
	if _, loaded := r.queued.LoadOrStore(task.ID(), struct{}{}); loaded {
		return nil
	}
	if err := r.queue.Enqueue(task); err != nil {
		r.queued.Delete(task.ID())
		return err
	}
	return nil
}

// requeue rebuilds a stored task through the registry and queues it.
// Records of unknown types are failed so they stop being recovered.
func (r *Runner) requeue(ctx context.Context, rec *Record) {
	task, err := r.registry.Build(rec.ID, rec.Type, rec.Payload)
	if err != nil {
		r.logger.Error("cannot rebuild stored task",
			"task_id", rec.ID,
			"task_type", rec.Type,
			"error", err)
		if saveErr := r.store.SaveResult(ctx, rec.ID, TaskStatusFailed, nil, err.Error()); saveErr != nil {
			r.logger.Error("failed to mark unrecoverable task failed",
				"task_id", rec.ID,
				"error", saveErr)
		}
		return
	}

	if err := r.enqueue(task); err != nil {
		r.logger.Error("failed to requeue task",
			"task_id", rec.ID,
			"task_type", rec.Type,
			"error", err)
	}
}

// processTask handles execution of a single task, including retries.
func (r *Runner) processTask(ctx context.Context, task Task, workerID int) {
	defer r.queued.Delete(task.ID())

	log := r.logger.With(
		"task_id", task.ID(),
		"task_type", task.Type(),
		"worker_id", workerID,
	)
	ctx = logger.WithLogger(ctx, log)

	if err := r.store.UpdateTaskStatus(ctx, task.ID(), TaskStatusProcessing, ""); err != nil {
		log.Error("failed to update task status to processing", "error", err)
		return
	}

	log.Info("processing task")

	policy := r.registry.Policy(task.Type())
	var result Result

	err := retry.Do(
		func() error {
			if err := r.store.RecordAttempt(ctx, task.ID()); err != nil {
				log.Warn("failed to record task attempt", "error", err)
			}
			res, err := task.Execute(ctx)
			if err != nil {
				return err
			}
			result = res
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(policy.MaxRetries+1),
		retry.Delay(policy.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.RetryIf(IsRetryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("task attempt failed",
				"attempt", n+1,
				"max_retries", policy.MaxRetries,
				"error", err)
		}),
	)

	if ctx.Err() != nil {
		// Shutting down: hand the task back for the next run.
		bg := context.WithoutCancel(ctx)
		if updateErr := r.store.UpdateTaskStatus(bg, task.ID(), TaskStatusPending, "Interrupted by shutdown"); updateErr != nil {
			log.Error("failed to reset interrupted task", "error", updateErr)
		}
		log.Info("task interrupted by shutdown")
		return
	}

	if err != nil {
		r.fail(ctx, task, err)
		return
	}

	if saveErr := r.store.SaveResult(ctx, task.ID(), TaskStatusCompleted, &result, ""); saveErr != nil {
		log.Error("failed to save task result", "error", saveErr)
		return
	}
	log.Info("task completed", "outcome", result.Outcome)
}

func (r *Runner) fail(ctx context.Context, task Task, err error) {
	if saveErr := r.store.SaveResult(ctx, task.ID(), TaskStatusFailed, nil, err.Error()); saveErr != nil {
		r.logger.Error("failed to update task status to failed",
			"task_id", task.ID(),
			"error", saveErr)
	}
	r.errHandler(task, err)
}

// stuckTaskMonitor periodically requeues tasks that have been processing
// for too long, and pending tasks that never made it into the queue.
func (r *Runner) stuckTaskMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckTaskCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.monitorCtx.Done():
			return
		case <-ticker.C:
			r.checkStuckTasks(r.monitorCtx)
		}
	}
}

func (r *Runner) checkStuckTasks(ctx context.Context) {
	stuck, err := r.store.GetProcessingTasks(ctx, r.config.StuckTaskAge)
	if err != nil {
		r.logger.Error("failed to check for stuck tasks", "error", err)
		return
	}

	for _, rec := range stuck {
		if _, busy := r.queued.Load(rec.ID); busy {
			continue
		}
		if err := r.store.UpdateTaskStatus(ctx, rec.ID, TaskStatusPending,
			"Reset after being stuck in processing state"); err != nil {
			r.logger.Error("failed to reset stuck task status",
				"task_id", rec.ID,
				"task_type", rec.Type,
				"error", err)
			continue
		}
		r.logger.Info("requeueing stuck task", "task_id", rec.ID, "task_type", rec.Type)
		r.requeue(ctx, rec)
	}

	pending, err := r.store.GetPendingTasks(ctx)
	if err != nil {
		r.logger.Error("failed to check for orphaned pending tasks", "error", err)
		return
	}
	cutoff := time.Now().UTC().Add(-r.config.StuckTaskAge)
	for _, rec := range pending {
		if rec.UpdatedAt.After(cutoff) {
			continue
		}
		if _, busy := r.queued.Load(rec.ID); busy {
			continue
		}
		r.requeue(ctx, rec)
	}
}
