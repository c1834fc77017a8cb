package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/golf-catalog/internal/domain/syncrun"
	"github.com/riskibarqy/golf-catalog/internal/platform/id"
	"github.com/riskibarqy/golf-catalog/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const CourseSyncJobPath = "/v1/internal/jobs/course-sync"

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

// PassRunner executes one sync pass. CourseSyncService is the production implementation.
type PassRunner interface {
	RunPass(ctx context.Context, input PassInput) (PassResult, error)
}

type SyncRunnerConfig struct {
	// UseQueue hands triggered runs to the job queue instead of the in-process worker.
	UseQueue   bool
	RunTimeout time.Duration
}

type CourseSyncJobPayload struct {
	RunID string `json:"run_id" validate:"required"`
}

// SyncRunner decouples the trigger acknowledgment from pass execution.
type SyncRunner struct {
	passes  PassRunner
	runRepo syncrun.RunRepository
	queue   JobQueue
	pool    *ants.Pool
	idGen   id.Generator
	cfg     SyncRunnerConfig
	logger  *logging.Logger
	now     func() time.Time
}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func NewSyncRunner(
	passes PassRunner,
	runRepo syncrun.RunRepository,
	queue JobQueue,
	idGen id.Generator,
	cfg SyncRunnerConfig,
	logger *logging.Logger,
) (*SyncRunner, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 30 * time.Minute
	}
	if cfg.UseQueue && queue == nil {
		return nil, fmt.Errorf("%w: job queue is required when queue mode is enabled", ErrInvalidInput)
	}

	pool, err := ants.NewPool(1, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create sync worker pool: %w", err)
	}

	return &SyncRunner{
		passes:  passes,
		runRepo: runRepo,
		queue:   queue,
		pool:    pool,
		idGen:   idGen,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Trigger queues a new run and returns it in idle status without waiting for the pass.
func (r *SyncRunner) Trigger(ctx context.Context, trigger syncrun.Trigger) (syncrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncRunner.Trigger")
	defer span.End()

	if !trigger.Valid() {
		return syncrun.Run{}, fmt.Errorf("%w: unknown trigger %q", ErrInvalidInput, trigger)
	}
	runID, err := r.idGen.NewID()
	if err != nil {
		return syncrun.Run{}, fmt.Errorf("generate sync run id: %w", err)
	}
	run := syncrun.Run{
		ID:       runID,
		Trigger:  trigger,
		Status:   syncrun.StatusIdle,
		QueuedAt: r.now().UTC(),
	}
	run.TraceID, run.SpanID = spanIDs(ctx)
	span.SetAttributes(attribute.String("sync.run_id", run.ID), attribute.Bool("sync.queued", r.cfg.UseQueue))

	if r.cfg.UseQueue {
		return r.enqueue(ctx, run)
	}
	return r.submit(ctx, run)
}

func (r *SyncRunner) enqueue(ctx context.Context, run syncrun.Run) (syncrun.Run, error) {
	if err := r.runRepo.Save(ctx, run); err != nil {
		return syncrun.Run{}, fmt.Errorf("save queued sync run: %w", err)
	}

	dedupID := dedupKey("course-sync", run.ID)
	if err := r.queue.Enqueue(ctx, CourseSyncJobPath, CourseSyncJobPayload{RunID: run.ID}, 0, dedupID); err != nil {
		finished := r.now().UTC()
		run.Status = syncrun.StatusFailed
		run.LastError = err.Error()
		run.FinishedAt = &finished
		if saveErr := r.runRepo.Save(context.WithoutCancel(ctx), run); saveErr != nil {
			r.logger.WarnContext(ctx, "save failed sync run", "run_id", run.ID, "error", saveErr)
		}
		return syncrun.Run{}, fmt.Errorf("%w: enqueue course sync: %w", ErrDependencyUnavailable, err)
	}

	r.logger.InfoContext(ctx, "course sync queued", "run_id", run.ID, "deduplication_id", dedupID)
	return run, nil
}

// submit reserves the single worker before the run is saved so a rejected trigger leaves no idle run behind.
func (r *SyncRunner) submit(ctx context.Context, run syncrun.Run) (syncrun.Run, error) {
	triggerSpan := trace.SpanContextFromContext(ctx)
	detached := context.WithoutCancel(ctx)
	ready := make(chan struct{})
	canceled := make(chan struct{})

	err := r.pool.Submit(func() {
		select {
		case <-ready:
		case <-canceled:
			return
		}
		r.runDetached(detached, triggerSpan, run)
	})
	if err != nil {
		if errors.Is(err, ants.ErrPoolOverload) {
			return syncrun.Run{}, fmt.Errorf("%w: a course sync pass is already queued", ErrSyncInProgress)
		}
		return syncrun.Run{}, fmt.Errorf("submit course sync: %w", err)
	}

	if err := r.runRepo.Save(ctx, run); err != nil {
		close(canceled)
		return syncrun.Run{}, fmt.Errorf("save queued sync run: %w", err)
	}
	close(ready)

	r.logger.InfoContext(ctx, "course sync accepted", "run_id", run.ID)
	return run, nil
}

func (r *SyncRunner) runDetached(ctx context.Context, triggerSpan trace.SpanContext, run syncrun.Run) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.RunTimeout)
	defer cancel()
	ctx, span := startDetachedSpan(ctx, triggerSpan, "usecase.SyncRunner.runDetached")
	defer span.End()

	if _, err := r.passes.RunPass(ctx, PassInput{Run: run, Trigger: run.Trigger}); err != nil {
		span.RecordError(err)
		r.logger.ErrorContext(ctx, "detached course sync failed", "run_id", run.ID, "error", err)
	}
}

// Execute runs a previously queued run inline. A run that already finished is returned unchanged
// so queue redeliveries are harmless.
func (r *SyncRunner) Execute(ctx context.Context, runID string) (syncrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncRunner.Execute")
	defer span.End()

	runID = strings.TrimSpace(runID)
	if runID == "" {
		return syncrun.Run{}, fmt.Errorf("%w: run id is required", ErrInvalidInput)
	}
	run, ok, err := r.runRepo.GetByID(ctx, runID)
	if err != nil {
		return syncrun.Run{}, fmt.Errorf("get sync run: %w", err)
	}
	if !ok {
		return syncrun.Run{}, fmt.Errorf("%w: sync run %s", ErrNotFound, runID)
	}
	if run.Status.Terminal() {
		return run, nil
	}
	if run.Status != syncrun.StatusIdle {
		return run, fmt.Errorf("%w: sync run %s is %s", ErrSyncInProgress, runID, run.Status)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.RunTimeout)
	defer cancel()
	result, err := r.passes.RunPass(ctx, PassInput{Run: run, Trigger: run.Trigger})
	return result.Run, err
}

func (r *SyncRunner) GetRun(ctx context.Context, runID string) (syncrun.Run, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return syncrun.Run{}, fmt.Errorf("%w: run id is required", ErrInvalidInput)
	}
	run, ok, err := r.runRepo.GetByID(ctx, runID)
	if err != nil {
		return syncrun.Run{}, fmt.Errorf("get sync run: %w", err)
	}
	if !ok {
		return syncrun.Run{}, fmt.Errorf("%w: sync run %s", ErrNotFound, runID)
	}
	return run, nil
}

func (r *SyncRunner) ListRuns(ctx context.Context, limit int) ([]syncrun.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	runs, err := r.runRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	return runs, nil
}

// Close waits up to timeout for the in-process worker to finish.
func (r *SyncRunner) Close(timeout time.Duration) error {
	if r == nil || r.pool == nil {
		return nil
	}
	if timeout <= 0 {
		r.pool.Release()
		return nil
	}
	return r.pool.ReleaseTimeout(timeout)
}

func dedupKey(prefix, runID string) string {
	return sanitizeDedupSegment(prefix) + "-" + sanitizeDedupSegment(runID)
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}
