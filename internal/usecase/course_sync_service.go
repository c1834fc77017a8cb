package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/golf-catalog/internal/domain/course"
	"github.com/riskibarqy/golf-catalog/internal/domain/syncrun"
	"github.com/riskibarqy/golf-catalog/internal/platform/id"
	"github.com/riskibarqy/golf-catalog/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"
)

type CourseSyncConfig struct {
	PageSize int
	// ProgressEvery emits a progress tick after every Nth processed record and after the
	// final one, never per record. Failures are reported as they happen regardless.
	ProgressEvery int
	// MaxFailures aborts the pass once more per-record errors than this have been seen.
	// Zero never aborts.
	MaxFailures int
	LeaseTTL    time.Duration
	// ConcurrentFirstSync allows a worker pool for the very first pass, and only when the
	// batch has no colliding keys.
	ConcurrentFirstSync bool
	FirstSyncWorkers    int
}

type PassInput struct {
	// Run is a queued run to execute. A zero Run makes the pass create its own.
	Run     syncrun.Run
	Trigger syncrun.Trigger
}

type PassResult struct {
	Run      syncrun.Run
	Failures []RecordFailure
}

// CourseSyncService drives one full pass: fetch, then resolve and reconcile every record
// in feed order. Sequential order lets a later record match a course created earlier in
// the same pass.
type CourseSyncService struct {
	feed       CourseFeed
	courseRepo course.Repository
	runRepo    syncrun.RunRepository
	leaseRepo  syncrun.LeaseRepository
	uow        course.UnitOfWork
	reporter   ProgressReporter
	validate   *validator.Validate
	idGen      id.Generator
	cfg        CourseSyncConfig
	logger     *logging.Logger
	now        func() time.Time
}

func NewCourseSyncService(
	feed CourseFeed,
	courseRepo course.Repository,
	uow course.UnitOfWork,
	runRepo syncrun.RunRepository,
	leaseRepo syncrun.LeaseRepository,
	reporter ProgressReporter,
	idGen id.Generator,
	cfg CourseSyncConfig,
	logger *logging.Logger,
) *CourseSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}
	if reporter == nil {
		reporter = NewLogProgressReporter(logger)
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 8000
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = 50
	}
	if cfg.MaxFailures < 0 {
		cfg.MaxFailures = 0
	}
	if cfg.LeaseTTL <= 0 {
		cfg.LeaseTTL = 15 * time.Minute
	}
	if cfg.FirstSyncWorkers <= 0 {
		cfg.FirstSyncWorkers = 8
	}

	return &CourseSyncService{
		feed:       feed,
		courseRepo: courseRepo,
		runRepo:    runRepo,
		leaseRepo:  leaseRepo,
		uow:        uow,
		reporter:   reporter,
		validate:   validator.New(),
		idGen:      idGen,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

type passState struct {
	mu       sync.Mutex
	run      syncrun.Run
	started  time.Time
	failures []RecordFailure
}

type recordOutcome struct {
	index       int
	externalID  string
	displayName string
	courseID    string
	match       MatchKind
	skipped     bool
	err         error
}

// RunPass executes one pass. The returned error is non-nil when the pass ends failed;
// per-record errors are reported and counted but never returned.
func (s *CourseSyncService) RunPass(ctx context.Context, input PassInput) (PassResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CourseSyncService.RunPass")
	defer span.End()

	run, err := s.prepareRun(input)
	if err != nil {
		return PassResult{}, err
	}
	span.SetAttributes(attribute.String("sync.run_id", run.ID), attribute.String("sync.trigger", string(run.Trigger)))

	started := s.now().UTC()
	run.Status = syncrun.StatusFetching
	run.StartedAt = &started
	if traceID, spanID := spanIDs(ctx); traceID != "" {
		run.TraceID, run.SpanID = traceID, spanID
	}
	state := &passState{run: run, started: started}

	acquired, err := s.leaseRepo.Acquire(ctx, syncrun.LeaseName, run.ID, started, s.cfg.LeaseTTL)
	if err != nil {
		return s.finish(ctx, state, fmt.Errorf("acquire sync lease: %w", err))
	}
	if !acquired {
		return s.finish(ctx, state, fmt.Errorf("%w: lease %s is held by another pass", ErrSyncInProgress, syncrun.LeaseName))
	}
	defer s.releaseLease(ctx, run.ID)

	s.saveRun(ctx, run)
	s.reporter.ReportProgress(ctx, progressFromRun(run))

	records, err := s.feed.FetchCourseList(ctx, 0, s.cfg.PageSize)
	if err != nil {
		return s.finish(ctx, state, fmt.Errorf("%w: fetch course list: %w", ErrDependencyUnavailable, err))
	}

	state.mu.Lock()
	state.run.Status = syncrun.StatusReconciling
	state.run.Total = len(records)
	snapshot := state.run
	state.mu.Unlock()
	s.saveRun(ctx, snapshot)
	s.logger.InfoContext(ctx, "course sync fetched feed", "run_id", run.ID, "total", len(records))

	var passErr error
	if recovered := panics.Try(func() { passErr = s.reconcileAll(ctx, state, records) }); recovered != nil {
		passErr = fmt.Errorf("course sync pass panicked: %w", recovered.AsError())
	}
	return s.finish(ctx, state, passErr)
}

func (s *CourseSyncService) prepareRun(input PassInput) (syncrun.Run, error) {
	run := input.Run
	if run.ID == "" {
		runID, err := s.idGen.NewID()
		if err != nil {
			return syncrun.Run{}, fmt.Errorf("generate sync run id: %w", err)
		}
		trigger := input.Trigger
		if trigger == "" {
			trigger = syncrun.TriggerCLI
		}
		run = syncrun.Run{ID: runID, Trigger: trigger, QueuedAt: s.now().UTC()}
	}
	if run.Status == "" {
		run.Status = syncrun.StatusIdle
	}
	if run.Status != syncrun.StatusIdle {
		return syncrun.Run{}, fmt.Errorf("%w: sync run %s is %s", ErrInvalidInput, run.ID, run.Status)
	}
	if err := run.Validate(); err != nil {
		return syncrun.Run{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return run, nil
}

func (s *CourseSyncService) reconcileAll(ctx context.Context, state *passState, records []ExternalCourse) error {
	syncedAt := state.started
	if s.cfg.ConcurrentFirstSync {
		allowed, reason, err := s.concurrentFirstSyncAllowed(ctx, records)
		if err != nil {
			return err
		}
		if allowed {
			s.logger.InfoContext(ctx, "course sync running concurrent first sync", "run_id", state.run.ID, "workers", s.cfg.FirstSyncWorkers)
			return s.reconcileConcurrently(ctx, state, records, syncedAt)
		}
		s.logger.InfoContext(ctx, "course sync falling back to sequential pass", "run_id", state.run.ID, "reason", reason)
	}

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("course sync pass interrupted at record %d: %w", i, err)
		}
		outcome := s.processRecord(ctx, i, record, syncedAt)
		if err := s.recordOutcome(ctx, state, outcome); err != nil {
			return err
		}
	}
	return nil
}

func (s *CourseSyncService) processRecord(ctx context.Context, index int, raw ExternalCourse, syncedAt time.Time) recordOutcome {
	record := raw.Sanitized()
	out := recordOutcome{index: index, externalID: record.ExternalID, displayName: record.DisplayName}

	if record.DecodeErr != nil {
		out.err = fmt.Errorf("%w: %w", ErrInvalidRecord, record.DecodeErr)
		out.skipped = true
		return out
	}
	if err := s.validate.StructCtx(ctx, record); err != nil {
		out.err = fmt.Errorf("%w: %w", ErrInvalidRecord, err)
		out.skipped = true
		return out
	}

	// Resolve and layout commit together so a failed record never leaves a course
	// stripped of its keys or half reconciled.
	recovered := panics.Try(func() {
		var resolved ResolvedCourse
		out.err = s.uow.WithinTx(ctx, func(ctx context.Context, courses course.Repository, layouts course.LayoutRepository) error {
			var err error
			resolved, err = NewCourseResolver(courses, s.idGen, s.logger).Resolve(ctx, record, syncedAt)
			if err != nil {
				return err
			}
			if _, err := NewLayoutReconciler(layouts, s.idGen).Reconcile(ctx, resolved.Course.ID, record); err != nil {
				return fmt.Errorf("reconcile layout course_id=%s: %w", resolved.Course.ID, err)
			}
			return nil
		})
		if out.err == nil {
			out.courseID = resolved.Course.ID
			out.match = resolved.Match
		}
	})
	if recovered != nil {
		out.err = fmt.Errorf("record panicked: %w", recovered.AsError())
	}
	out.skipped = errors.Is(out.err, ErrInvalidRecord)
	return out
}

func (s *CourseSyncService) recordOutcome(ctx context.Context, state *passState, outcome recordOutcome) error {
	state.mu.Lock()
	state.run.Processed++
	var failure *RecordFailure
	switch {
	case outcome.err == nil && outcome.match == MatchCreated:
		state.run.Created++
	case outcome.err == nil:
		state.run.Updated++
	case outcome.skipped:
		state.run.Skipped++
	default:
		state.run.Failed++
	}
	if outcome.err != nil {
		f := RecordFailure{
			RunID:       state.run.ID,
			Index:       outcome.index,
			ExternalID:  outcome.externalID,
			DisplayName: outcome.displayName,
			Skipped:     outcome.skipped,
			Err:         outcome.err,
		}
		state.failures = append(state.failures, f)
		state.run.LastError = outcome.err.Error()
		failure = &f
	}
	state.run.ElapsedMs = s.now().UTC().Sub(state.started).Milliseconds()
	errorCount := state.run.Skipped + state.run.Failed
	tick := state.run.Processed%s.cfg.ProgressEvery == 0 || state.run.Processed == state.run.Total
	snapshot := state.run
	state.mu.Unlock()

	if failure != nil {
		s.reporter.ReportRecordFailure(ctx, *failure)
	}
	if s.cfg.MaxFailures > 0 && errorCount > s.cfg.MaxFailures {
		return fmt.Errorf("aborting pass after %d record errors (SYNC_MAX_FAILURES=%d)", errorCount, s.cfg.MaxFailures)
	}
	if tick {
		return s.progressTick(ctx, snapshot)
	}
	return nil
}

// progressTick renews the lease, persists counters and reports progress.
func (s *CourseSyncService) progressTick(ctx context.Context, run syncrun.Run) error {
	renewed, err := s.leaseRepo.Renew(ctx, syncrun.LeaseName, run.ID, s.now().UTC(), s.cfg.LeaseTTL)
	if err != nil {
		s.logger.WarnContext(ctx, "renew sync lease failed", "run_id", run.ID, "error", err)
	} else if !renewed {
		return fmt.Errorf("%w: sync lease %s lost by run %s", ErrSyncInProgress, syncrun.LeaseName, run.ID)
	}

	s.saveRun(ctx, run)
	s.reporter.ReportProgress(ctx, progressFromRun(run))
	return nil
}

func (s *CourseSyncService) concurrentFirstSyncAllowed(ctx context.Context, records []ExternalCourse) (bool, string, error) {
	count, err := s.courseRepo.Count(ctx)
	if err != nil {
		return false, "", fmt.Errorf("count courses: %w", err)
	}
	if count > 0 {
		return false, "catalog is not empty", nil
	}
	if key, collides := findBatchCollision(records); collides {
		return false, "batch has colliding " + key, nil
	}
	return true, "", nil
}

// findBatchCollision reports the first key kind shared by two records of the batch.
func findBatchCollision(records []ExternalCourse) (string, bool) {
	externalIDs := make(map[string]struct{}, len(records))
	nameLocations := make(map[string]struct{}, len(records))
	fingerprints := make(map[string]struct{}, len(records))

	for _, raw := range records {
		record := raw.Sanitized()
		if record.ExternalID == "" || record.DisplayName == "" {
			continue
		}
		if _, ok := externalIDs[record.ExternalID]; ok {
			return "external_id", true
		}
		externalIDs[record.ExternalID] = struct{}{}

		nameLocation := record.NameLocationKey()
		if _, ok := nameLocations[nameLocation]; ok {
			return "name_location_key", true
		}
		nameLocations[nameLocation] = struct{}{}

		fingerprint := record.Fingerprint()
		if _, ok := fingerprints[fingerprint]; ok {
			return "fingerprint", true
		}
		fingerprints[fingerprint] = struct{}{}
	}
	return "", false
}

func (s *CourseSyncService) reconcileConcurrently(ctx context.Context, state *passState, records []ExternalCourse, syncedAt time.Time) error {
	pool, err := ants.NewPool(s.cfg.FirstSyncWorkers)
	if err != nil {
		return fmt.Errorf("create first sync pool: %w", err)
	}
	defer pool.Release()

	var (
		wg        sync.WaitGroup
		abortOnce sync.Once
		abortErr  error
		aborted   atomic.Bool
	)
	abort := func(err error) {
		abortOnce.Do(func() {
			abortErr = err
			aborted.Store(true)
		})
	}

	for i, record := range records {
		if aborted.Load() {
			break
		}
		if err := ctx.Err(); err != nil {
			abort(fmt.Errorf("course sync pass interrupted at record %d: %w", i, err))
			break
		}

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if aborted.Load() {
				return
			}
			outcome := s.processRecord(ctx, i, record, syncedAt)
			if err := s.recordOutcome(ctx, state, outcome); err != nil {
				abort(err)
			}
		})
		if submitErr != nil {
			wg.Done()
			abort(fmt.Errorf("submit first sync record %d: %w", i, submitErr))
			break
		}
	}

	wg.Wait()
	return abortErr
}

func (s *CourseSyncService) finish(ctx context.Context, state *passState, passErr error) (PassResult, error) {
	finished := s.now().UTC()

	state.mu.Lock()
	state.run.FinishedAt = &finished
	state.run.ElapsedMs = finished.Sub(state.started).Milliseconds()
	if passErr != nil {
		state.run.Status = syncrun.StatusFailed
		state.run.LastError = passErr.Error()
	} else {
		state.run.Status = syncrun.StatusCompleted
	}
	run := state.run
	failures := append([]RecordFailure(nil), state.failures...)
	state.mu.Unlock()

	s.saveRun(ctx, run)
	s.reporter.ReportProgress(ctx, progressFromRun(run))

	if passErr != nil {
		s.logger.ErrorContext(ctx, "course sync pass failed", "run_id", run.ID, "processed", run.Processed, "total", run.Total, "error", passErr)
		return PassResult{Run: run, Failures: failures}, passErr
	}
	s.logger.InfoContext(ctx, "course sync pass completed",
		"run_id", run.ID,
		"total", run.Total,
		"created", run.Created,
		"updated", run.Updated,
		"skipped", run.Skipped,
		"failed", run.Failed,
		"elapsed_ms", run.ElapsedMs,
	)
	return PassResult{Run: run, Failures: failures}, nil
}

func (s *CourseSyncService) saveRun(ctx context.Context, run syncrun.Run) {
	if err := s.runRepo.Save(context.WithoutCancel(ctx), run); err != nil {
		s.logger.WarnContext(ctx, "save sync run failed", "run_id", run.ID, "status", string(run.Status), "error", err)
	}
}

func (s *CourseSyncService) releaseLease(ctx context.Context, holder string) {
	if err := s.leaseRepo.Release(context.WithoutCancel(ctx), syncrun.LeaseName, holder); err != nil {
		s.logger.WarnContext(ctx, "release sync lease failed", "run_id", holder, "error", err)
	}
}

func progressFromRun(run syncrun.Run) Progress {
	return Progress{
		RunID:     run.ID,
		Status:    run.Status,
		Processed: run.Processed,
		Total:     run.Total,
		ElapsedMs: run.ElapsedMs,
		Created:   run.Created,
		Updated:   run.Updated,
		Skipped:   run.Skipped,
		Failed:    run.Failed,
	}
}
