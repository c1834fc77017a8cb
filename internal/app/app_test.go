package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/golf-catalog/internal/config"
	"github.com/riskibarqy/golf-catalog/internal/domain/syncrun"
	"github.com/riskibarqy/golf-catalog/internal/platform/logging"
	"github.com/riskibarqy/golf-catalog/internal/usecase"
	"github.com/stretchr/testify/require"
)

type staticFeed struct {
	records []usecase.ExternalCourse
}

func (f staticFeed) FetchCourseList(_ context.Context, skip, take int) ([]usecase.ExternalCourse, error) {
	if skip >= len(f.records) {
		return nil, nil
	}
	end := skip + take
	if end > len(f.records) {
		end = len(f.records)
	}
	return f.records[skip:end], nil
}

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:           config.EnvDev,
		HTTPAddr:         ":0",
		StoreDriver:      config.StoreDriverMemory,
		CacheTTL:         time.Minute,
		TrackmanPageSize: 100,
		CronSecret:       "secret",
		SyncLeaseTTL:     time.Minute,
		SyncRunTimeout:   time.Minute,
	}
}

func TestNew_MemoryStoreRunsInlinePass(t *testing.T) {
	feed := staticFeed{records: []usecase.ExternalCourse{
		{ExternalID: "c-1", DisplayName: "Pebble Beach", Location: "California"},
		{ExternalID: "c-2", DisplayName: "St Andrews", Location: "Scotland"},
	}}

	application, err := New(context.Background(), memoryConfig(), logging.NewNop(), WithCourseFeed(feed))
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close(time.Second) })

	result, err := application.SyncService.RunPass(context.Background(), usecase.PassInput{Trigger: syncrun.TriggerCLI})
	require.NoError(t, err)
	require.Equal(t, syncrun.StatusCompleted, result.Run.Status)
	require.Equal(t, 2, result.Run.Created)

	runs, err := application.Runner.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	report, err := application.Orphans.Report(context.Background())
	require.NoError(t, err)
	require.Empty(t, report.Orphans)
}

func TestNewHTTPServer_ServesHealthz(t *testing.T) {
	application, err := New(context.Background(), memoryConfig(), logging.NewNop(), WithCourseFeed(staticFeed{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close(time.Second) })

	srv, err := application.NewHTTPServer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), `"status":"ok"`), rec.Body.String())
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = ""

	application, err := New(context.Background(), cfg, logging.NewNop(), WithCourseFeed(staticFeed{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close(time.Second) })

	if _, err := application.NewHTTPServer(); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestNew_QueueModeBuildsPublisher(t *testing.T) {
	cfg := memoryConfig()
	cfg.QStashEnabled = true
	cfg.QStashBaseURL = "https://qstash.example.com"
	cfg.QStashToken = "token"
	cfg.QStashTargetBaseURL = "https://catalog.example.com"
	cfg.InternalJobToken = "job-token"

	application, err := New(context.Background(), cfg, logging.NewNop(), WithCourseFeed(staticFeed{}))
	require.NoError(t, err)
	require.NoError(t, application.Close(time.Second))
}
