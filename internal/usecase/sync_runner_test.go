package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/golf-catalog/internal/domain/syncrun"
	syncrunmock "github.com/riskibarqy/golf-catalog/internal/mocks/domain/syncrun"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type blockingPassRunner struct {
	mu      sync.Mutex
	inputs  []PassInput
	started chan string
	release chan struct{}
}

func (r *blockingPassRunner) RunPass(_ context.Context, input PassInput) (PassResult, error) {
	r.mu.Lock()
	r.inputs = append(r.inputs, input)
	r.mu.Unlock()

	if r.started != nil {
		r.started <- input.Run.ID
	}
	if r.release != nil {
		<-r.release
	}
	run := input.Run
	run.Status = syncrun.StatusCompleted
	return PassResult{Run: run}, nil
}

type recordedJob struct {
	path    string
	payload any
	dedupID string
}

type recordingJobQueue struct {
	mu   sync.Mutex
	jobs []recordedJob
	err  error
}

func (q *recordingJobQueue) Enqueue(_ context.Context, path string, payload any, _ time.Duration, deduplicationID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, recordedJob{path: path, payload: payload, dedupID: deduplicationID})
	return nil
}

func TestSyncRunner_Trigger_RunsDetachedAndRejectsOverlap(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemoryCatalog()
	passes := &blockingPassRunner{started: make(chan string, 1), release: make(chan struct{})}
	runner, err := NewSyncRunner(passes, store.runs, nil, &sequenceIDGenerator{prefix: "run"}, SyncRunnerConfig{}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = runner.Close(time.Second) })

	run, err := runner.Trigger(ctx, syncrun.TriggerHTTP)
	require.NoError(t, err)
	require.Equal(t, syncrun.StatusIdle, run.Status)

	select {
	case startedID := <-passes.started:
		require.Equal(t, run.ID, startedID)
	case <-time.After(2 * time.Second):
		t.Fatalf("detached pass did not start")
	}

	_, err = runner.Trigger(ctx, syncrun.TriggerHTTP)
	require.ErrorIs(t, err, ErrSyncInProgress)

	runs, err := store.runs.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1, "a rejected trigger must not leave a queued run behind")

	close(passes.release)
}

func TestSyncRunner_Trigger_SurvivesCanceledRequestContext(t *testing.T) {
	t.Parallel()

	store := newMemoryCatalog()
	passes := &blockingPassRunner{started: make(chan string, 1)}
	runner, err := NewSyncRunner(passes, store.runs, nil, &sequenceIDGenerator{prefix: "run"}, SyncRunnerConfig{}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = runner.Close(time.Second) })

	ctx, cancel := context.WithCancel(context.Background())
	_, err = runner.Trigger(ctx, syncrun.TriggerHTTP)
	require.NoError(t, err)
	cancel()

	select {
	case <-passes.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("detached pass did not start after the request ended")
	}
}

func TestSyncRunner_Trigger_EnqueuesWhenQueueConfigured(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemoryCatalog()
	queue := &recordingJobQueue{}
	runner, err := NewSyncRunner(&blockingPassRunner{}, store.runs, queue, &sequenceIDGenerator{prefix: "run"}, SyncRunnerConfig{UseQueue: true}, testLogger())
	require.NoError(t, err)

	run, err := runner.Trigger(ctx, syncrun.TriggerHTTP)
	require.NoError(t, err)

	require.Len(t, queue.jobs, 1)
	require.Equal(t, CourseSyncJobPath, queue.jobs[0].path)
	require.Equal(t, CourseSyncJobPayload{RunID: run.ID}, queue.jobs[0].payload)
	require.Equal(t, "course-sync-"+run.ID, queue.jobs[0].dedupID)

	stored, found, err := store.runs.GetByID(ctx, run.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, syncrun.StatusIdle, stored.Status)
}

func TestSyncRunner_Trigger_QueueFailureMarksRunFailed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemoryCatalog()
	queue := &recordingJobQueue{err: errors.New("qstash status=503")}
	runner, err := NewSyncRunner(&blockingPassRunner{}, store.runs, queue, &sequenceIDGenerator{prefix: "run"}, SyncRunnerConfig{UseQueue: true}, testLogger())
	require.NoError(t, err)

	_, err = runner.Trigger(ctx, syncrun.TriggerHTTP)
	require.ErrorIs(t, err, ErrDependencyUnavailable)

	stored, found, err := store.runs.GetByID(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, syncrun.StatusFailed, stored.Status)
}

func TestSyncRunner_Execute(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemoryCatalog()
	passes := &blockingPassRunner{}
	runner, err := NewSyncRunner(passes, store.runs, &recordingJobQueue{}, &sequenceIDGenerator{prefix: "run"}, SyncRunnerConfig{UseQueue: true}, testLogger())
	require.NoError(t, err)

	_, err = runner.Execute(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	finished := time.Now().UTC()
	require.NoError(t, store.runs.Save(ctx, syncrun.Run{
		ID:         "done",
		Trigger:    syncrun.TriggerQueue,
		Status:     syncrun.StatusCompleted,
		QueuedAt:   finished,
		FinishedAt: &finished,
	}))
	got, err := runner.Execute(ctx, "done")
	require.NoError(t, err)
	require.Equal(t, syncrun.StatusCompleted, got.Status)
	require.Empty(t, passes.inputs, "redelivered job must not run a second pass")

	require.NoError(t, store.runs.Save(ctx, syncrun.Run{ID: "busy", Trigger: syncrun.TriggerQueue, Status: syncrun.StatusReconciling, QueuedAt: finished}))
	_, err = runner.Execute(ctx, "busy")
	require.ErrorIs(t, err, ErrSyncInProgress)

	queued, err := runner.Trigger(ctx, syncrun.TriggerHTTP)
	require.NoError(t, err)
	got, err = runner.Execute(ctx, queued.ID)
	require.NoError(t, err)
	require.Equal(t, syncrun.StatusCompleted, got.Status)
	require.Len(t, passes.inputs, 1)
	require.Equal(t, queued.ID, passes.inputs[0].Run.ID)
}

func TestSyncRunner_ListRuns_ClampsLimit(t *testing.T) {
	t.Parallel()

	runs := syncrunmock.NewRunRepository(t)
	runs.On("ListRecent", mock.Anything, 100).Return([]syncrun.Run{}, nil).Once()
	runs.On("ListRecent", mock.Anything, 20).Return([]syncrun.Run{}, nil).Once()

	runner, err := NewSyncRunner(&blockingPassRunner{}, runs, nil, nil, SyncRunnerConfig{}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = runner.Close(0) })

	_, err = runner.ListRuns(context.Background(), 500)
	require.NoError(t, err)
	_, err = runner.ListRuns(context.Background(), 0)
	require.NoError(t, err)
}

func TestNewSyncRunner_RequiresQueueInQueueMode(t *testing.T) {
	t.Parallel()

	_, err := NewSyncRunner(&blockingPassRunner{}, newMemoryCatalog().runs, nil, nil, SyncRunnerConfig{UseQueue: true}, testLogger())
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDedupKey_UsesQStashSafeFormat(t *testing.T) {
	t.Parallel()

	got := dedupKey("course-sync", "run:1/2 3")
	if got != "course-sync-run-1-2-3" {
		t.Fatalf("unexpected dedup key: got=%q", got)
	}
	if got := sanitizeDedupSegment(" \t "); got != "unknown" {
		t.Fatalf("expected unknown fallback, got=%q", got)
	}
}
