package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/golf-catalog/internal/app"
	"github.com/riskibarqy/golf-catalog/internal/config"
	"github.com/riskibarqy/golf-catalog/internal/usecase"
	"github.com/stretchr/testify/require"
)

type staticFeed struct {
	records []usecase.ExternalCourse
	err     error
}

func (f staticFeed) FetchCourseList(_ context.Context, skip, _ int) ([]usecase.ExternalCourse, error) {
	if f.err != nil {
		return nil, f.err
	}
	if skip > 0 {
		return nil, nil
	}
	return f.records, nil
}

func testDeps(feed usecase.CourseFeed) deps {
	return deps{
		loadConfig: func() (config.Config, error) {
			return config.Config{
				AppEnv:           config.EnvDev,
				StoreDriver:      config.StoreDriverMemory,
				CacheTTL:         time.Minute,
				TrackmanPageSize: 100,
				SyncLeaseTTL:     time.Minute,
				SyncRunTimeout:   time.Minute,
			}, nil
		},
		appOptions: []app.Option{app.WithCourseFeed(feed)},
	}
}

func execute(t *testing.T, d deps, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCommand(d)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSyncCommand_PrintsProgressAndSummary(t *testing.T) {
	feed := staticFeed{records: []usecase.ExternalCourse{
		{ExternalID: "c-1", DisplayName: "Pebble Beach", Location: "California"},
		{ExternalID: "c-2", DisplayName: "", Location: "Nowhere"},
	}}

	out, err := execute(t, testDeps(feed), "sync")
	require.NoError(t, err)
	require.Contains(t, out, "[reconciling]")
	require.Contains(t, out, "record #1 skipped")
	require.Contains(t, out, "completed: total=2 processed=2 created=1")
}

func TestSyncCommand_ReturnsFeedError(t *testing.T) {
	out, err := execute(t, testDeps(staticFeed{err: errors.New("upstream down")}), "sync")
	require.Error(t, err)
	require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
	require.Contains(t, out, "failed")
}

func TestOrphansCommand_EmptyStore(t *testing.T) {
	feed := staticFeed{records: []usecase.ExternalCourse{
		{ExternalID: "c-1", DisplayName: "Pebble Beach", Location: "California"},
	}}

	out, err := execute(t, testDeps(feed), "orphans", "--delete")
	require.NoError(t, err)
	require.Contains(t, out, "feed records: 1 (unique keys 1), stored courses: 0, orphans: 0")
	require.NotContains(t, out, "deleted")
}

func TestRunsCommand_NoRuns(t *testing.T) {
	out, err := execute(t, testDeps(staticFeed{}), "runs", "--limit", "5")
	require.NoError(t, err)
	require.Contains(t, out, "no sync runs recorded")
}

func TestRootCommand_ConfigError(t *testing.T) {
	d := deps{loadConfig: func() (config.Config, error) {
		return config.Config{}, errors.New("bad env")
	}}

	_, err := execute(t, d, "runs")
	require.ErrorContains(t, err, "load config: bad env")
}
