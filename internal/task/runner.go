package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// RunnerConfig holds configuration for the task runner.
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks.
	WorkerCount int

	// QueueSize determines the buffer size of the in-memory task queue.
	QueueSize int

	// StuckTaskAge defines how long a task can remain in processing state
	// before it is considered stuck and reset to pending.
	StuckTaskAge time.Duration

	// StuckTaskCheckInterval defines how often to check for stuck tasks.
	// Zero means the 5 minute default.
	StuckTaskCheckInterval time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:            2,
		QueueSize:              100,
		StuckTaskAge:           30 * time.Minute,
		StuckTaskCheckInterval: 5 * time.Minute,
	}
}

// Runner manages background task processing with a pool of workers
// consuming from a bounded in-memory queue. Every submitted task is
// persisted first so a restart can recover work that never ran.
type Runner struct {
	store     Store
	factories map[string]Factory
	taskChan  chan Task
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	config    RunnerConfig
	logger    *slog.Logger
}

// NewRunner creates a new Runner.
func NewRunner(store Store, config RunnerConfig, logger *slog.Logger) *Runner {
	if store == nil {
		panic("store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.StuckTaskCheckInterval == 0 {
		config.StuckTaskCheckInterval = 5 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		store:     store,
		factories: make(map[string]Factory),
		taskChan:  make(chan Task, config.QueueSize),
		ctx:       ctx,
		cancel:    cancel,
		config:    config,
		logger:    logger.With(slog.String("component", "task_runner")),
	}
}

// RegisterFactory associates a task type with the factory used to rebuild
// it during recovery. Must be called before Start.
func (r *Runner) RegisterFactory(taskType string, factory Factory) {
	r.factories[taskType] = factory
}

// Submit persists a task and adds it to the queue.
// Returns an error if the store write fails or the queue is full.
func (r *Runner) Submit(ctx context.Context, t Task) error {
	if err := r.store.Save(ctx, t); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	select {
	case r.taskChan <- t:
		return nil
	default:
		return fmt.Errorf("task queue is full, try again later")
	}
}

// Start recovers unfinished tasks and launches the worker pool and the
// stuck-task monitor.
func (r *Runner) Start() error {
	if err := r.recover(); err != nil {
		return fmt.Errorf("failed to recover tasks: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckTaskMonitor()

	return nil
}

// Stop gracefully shuts down the runner, waiting for in-flight tasks.
func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()
}

// recover requeues tasks that were pending or processing when the
// previous process exited. Processing tasks are reset to pending first.
func (r *Runner) recover() error {
	ctx := context.Background()

	if _, err := r.store.ResetStuck(ctx, 0); err != nil {
		return fmt.Errorf("failed to reset interrupted tasks: %w", err)
	}

	records, err := r.store.ListByStatus(ctx, StatusPending)
	if err != nil {
		return fmt.Errorf("failed to list pending tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks", slog.Int("count", len(records)))

	for _, record := range records {
		factory, ok := r.factories[record.Type]
		if !ok {
			r.logger.Error("no factory registered for task type",
				slog.String("task_id", record.ID.String()),
				slog.String("task_type", record.Type))
			continue
		}

		t, err := factory.Rebuild(record)
		if err != nil {
			r.logger.Error("failed to rebuild task",
				slog.String("error", err.Error()),
				slog.String("task_id", record.ID.String()),
				slog.String("task_type", record.Type))
			if updateErr := r.store.UpdateStatus(
				ctx, record.ID, StatusFailed, err.Error()); updateErr != nil {
				r.logger.Error("failed to mark unbuildable task failed",
					slog.String("error", updateErr.Error()),
					slog.String("task_id", record.ID.String()))
			}
			continue
		}

		select {
		case r.taskChan <- t:
		default:
			r.logger.Error("failed to requeue task, queue is full",
				slog.String("task_id", record.ID.String()),
				slog.String("task_type", record.Type))
		}
	}

	return nil
}

// worker consumes tasks from the queue until the runner is stopped.
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	log := r.logger.With(slog.Int("worker", id))
	log.Debug("worker started")

	for {
		select {
		case <-r.ctx.Done():
			log.Debug("worker stopping")
			return
		case t := <-r.taskChan:
			r.process(t, log)
		}
	}
}

// process runs one task, updating its persisted status around execution.
func (r *Runner) process(t Task, log *slog.Logger) {
	ctx := r.ctx

	if err := r.store.UpdateStatus(ctx, t.ID(), StatusProcessing, ""); err != nil {
		log.Error("failed to mark task processing",
			slog.String("error", err.Error()),
			slog.String("task_id", t.ID().String()))
		return
	}

	log.Debug("executing task",
		slog.String("task_id", t.ID().String()),
		slog.String("task_type", t.Type()))

	if err := t.Execute(ctx); err != nil {
		log.Error("task execution failed",
			slog.String("error", err.Error()),
			slog.String("task_id", t.ID().String()),
			slog.String("task_type", t.Type()))
		if updateErr := r.store.UpdateStatus(ctx, t.ID(), StatusFailed, err.Error()); updateErr != nil {
			log.Error("failed to mark task failed",
				slog.String("error", updateErr.Error()),
				slog.String("task_id", t.ID().String()))
		}
		return
	}

	if err := r.store.UpdateStatus(ctx, t.ID(), StatusCompleted, ""); err != nil {
		log.Error("failed to mark task completed",
			slog.String("error", err.Error()),
			slog.String("task_id", t.ID().String()))
		return
	}

	log.Debug("task completed",
		slog.String("task_id", t.ID().String()),
		slog.String("task_type", t.Type()))
}

// stuckTaskMonitor periodically resets tasks that have sat in processing
// state past the configured age. Reset tasks are picked up on the next
// process start rather than requeued live; a stuck task usually means a
// worker died with it.
func (r *Runner) stuckTaskMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckTaskCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			count, err := r.store.ResetStuck(r.ctx, r.config.StuckTaskAge)
			if err != nil {
				r.logger.Error("failed to reset stuck tasks",
					slog.String("error", err.Error()))
				continue
			}
			if count > 0 {
				r.logger.Warn("reset stuck tasks", slog.Int("count", count))
			}
		}
	}
}
