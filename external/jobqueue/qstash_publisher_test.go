package jobqueue

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/golf-catalog/internal/platform/logging"
	"github.com/riskibarqy/golf-catalog/internal/platform/resilience"
	"github.com/stretchr/testify/require"
)

type courseSyncPayload struct {
	RunID string `json:"run_id"`
}

func TestQStashPublisher_Enqueue_SendsUpstashHeaders(t *testing.T) {
	t.Parallel()

	var (
		gotPath   string
		gotHeader http.Header
		gotBody   string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeader = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          server.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "https://catalog.example.com/",
		Retries:          3,
		InternalJobToken: "job-token",
	}, logging.NewNop())

	err := publisher.Enqueue(context.Background(), "v1/internal/jobs/course-sync", courseSyncPayload{RunID: "run-1"}, 90*time.Second, " course-sync-run-1 ")
	require.NoError(t, err)

	require.Equal(t, "/v2/publish/https://catalog.example.com/v1/internal/jobs/course-sync", gotPath)
	require.Equal(t, "Bearer qstash-token", gotHeader.Get("Authorization"))
	require.Equal(t, "3", gotHeader.Get("Upstash-Retries"))
	require.Equal(t, "90s", gotHeader.Get("Upstash-Delay"))
	require.Equal(t, "course-sync-run-1", gotHeader.Get("Upstash-Deduplication-Id"))
	require.Equal(t, "job-token", gotHeader.Get("Upstash-Forward-X-Internal-Job-Token"))
	require.JSONEq(t, `{"run_id":"run-1"}`, gotBody)
}

func TestQStashPublisher_Enqueue_RejectsInvalidTarget(t *testing.T) {
	t.Parallel()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       "https://qstash.upstash.io",
		TargetBaseURL: "ftp://catalog.example.com",
	}, logging.NewNop())

	err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/course-sync", nil, 0, "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "QSTASH_TARGET_BASE_URL")

	err = publisher.Enqueue(context.Background(), " ", nil, 0, "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "job path is required")
}

func TestQStashPublisher_Enqueue_OpensCircuitOnTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       server.URL,
		TargetBaseURL: "https://catalog.example.com",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, logging.NewNop())

	for i := 0; i < 2; i++ {
		err := publisher.Enqueue(context.Background(), "/jobs", nil, 0, "")
		require.True(t, isQStashCircuitFailure(err), "expected transient failure, got %v", err)
	}
	err := publisher.Enqueue(context.Background(), "/jobs", nil, 0, "")
	require.True(t, errors.Is(err, resilience.ErrCircuitOpen), "expected open circuit, got %v", err)
	require.EqualValues(t, 2, calls.Load())
}

func TestQStashPublisher_Enqueue_ClientErrorKeepsCircuitClosed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad destination"))
	}))
	defer server.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:        server.URL,
		TargetBaseURL:  "https://catalog.example.com",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1},
	}, logging.NewNop())

	for i := 0; i < 3; i++ {
		err := publisher.Enqueue(context.Background(), "/jobs", nil, 0, "")
		require.Error(t, err)
		require.False(t, isQStashCircuitFailure(err))
		require.True(t, strings.Contains(err.Error(), "status=400"))
	}
}

func TestBuildQStashCurlPreview_MasksSecrets(t *testing.T) {
	t.Parallel()

	got := buildQStashCurlPreview("https://qstash/v2/publish/x", "/jobs", "0s", 0, "", `{"a":"b'c"}`, true)
	if strings.Contains(got, "job-token") || !strings.Contains(got, "Bearer ***") {
		t.Fatalf("curl preview must mask credentials: %s", got)
	}
	if strings.Contains(got, "Upstash-Delay") {
		t.Fatalf("zero delay must be omitted: %s", got)
	}
}
