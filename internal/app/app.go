package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/golf-catalog/external/jobqueue"
	"github.com/riskibarqy/golf-catalog/external/trackman"
	"github.com/riskibarqy/golf-catalog/internal/config"
	"github.com/riskibarqy/golf-catalog/internal/interfaces/httpapi"
	"github.com/riskibarqy/golf-catalog/internal/platform/cache"
	idgen "github.com/riskibarqy/golf-catalog/internal/platform/id"
	"github.com/riskibarqy/golf-catalog/internal/platform/logging"
	"github.com/riskibarqy/golf-catalog/internal/usecase"
)

// App holds the wired services shared by the HTTP server and the operator CLI.
type App struct {
	cfg    config.Config
	logger *logging.Logger
	repos  repositories

	SyncService *usecase.CourseSyncService
	Runner      *usecase.SyncRunner
	Orphans     *usecase.OrphanService
}

type Option func(*options)

type options struct {
	reporter usecase.ProgressReporter
	feed     usecase.CourseFeed
}

// WithProgressReporter replaces the log-based progress reporter of the sync pass.
func WithProgressReporter(reporter usecase.ProgressReporter) Option {
	return func(o *options) {
		o.reporter = reporter
	}
}

// WithCourseFeed replaces the Trackman client, mostly for tests.
func WithCourseFeed(feed usecase.CourseFeed) Option {
	return func(o *options) {
		o.feed = feed
	}
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	feed := o.feed
	if feed == nil {
		feed = trackman.NewClient(trackman.ClientConfig{
			GraphQLURL:     cfg.TrackmanGraphQLURL,
			Timeout:        cfg.TrackmanTimeout,
			MaxRetries:     cfg.TrackmanMaxRetries,
			PageSize:       cfg.TrackmanPageSize,
			Logger:         logger.Named("trackman"),
			CircuitBreaker: cfg.TrackmanCircuit,
		})
	}
	reporter := o.reporter
	if reporter == nil {
		reporter = usecase.NewLogProgressReporter(logger)
	}

	ids := idgen.NewUUIDGenerator()
	syncService := usecase.NewCourseSyncService(
		feed,
		repos.courses,
		repos.uow,
		repos.runs,
		repos.leases,
		reporter,
		ids,
		usecase.CourseSyncConfig{
			PageSize:            cfg.TrackmanPageSize,
			ProgressEvery:       cfg.SyncProgressEvery,
			MaxFailures:         cfg.SyncMaxFailures,
			LeaseTTL:            cfg.SyncLeaseTTL,
			ConcurrentFirstSync: cfg.SyncConcurrentFirstSync,
			FirstSyncWorkers:    cfg.SyncFirstSyncWorkers,
		},
		logger,
	)

	var queue usecase.JobQueue
	if cfg.QStashEnabled {
		queue = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker:   cfg.QStashCircuit,
		}, logger.Named("qstash"))
	}

	runner, err := usecase.NewSyncRunner(syncService, repos.runs, queue, ids, usecase.SyncRunnerConfig{
		UseQueue:   cfg.QStashEnabled,
		RunTimeout: cfg.SyncRunTimeout,
	}, logger)
	if err != nil {
		closeDB(repos, logger)
		return nil, fmt.Errorf("build sync runner: %w", err)
	}

	orphans := usecase.NewOrphanService(feed, repos.courses, cache.NewStore(cfg.CacheTTL), cfg.TrackmanPageSize, logger)

	return &App{
		cfg:         cfg,
		logger:      logger,
		repos:       repos,
		SyncService: syncService,
		Runner:      runner,
		Orphans:     orphans,
	}, nil
}

func (a *App) NewHTTPServer() (*http.Server, error) {
	if a.cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(a.Runner, a.Orphans, a.logger)
	router := httpapi.NewRouter(handler, a.logger, httpapi.RouterConfig{
		SwaggerEnabled:     a.cfg.SwaggerEnabled,
		CORSAllowedOrigins: a.cfg.CORSAllowedOrigins,
		CronSecret:         a.cfg.CronSecret,
		InternalJobToken:   a.cfg.InternalJobToken,
	})

	return &http.Server{
		Addr:         a.cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
	}, nil
}

// Close waits up to timeout for an in-flight pass, then closes the database.
func (a *App) Close(timeout time.Duration) error {
	var errs []error
	if err := a.Runner.Close(timeout); err != nil {
		errs = append(errs, fmt.Errorf("drain sync runner: %w", err))
	}
	if a.repos.db != nil {
		if err := a.repos.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close postgres: %w", err))
		}
	}
	return errors.Join(errs...)
}

func closeDB(repos repositories, logger *logging.Logger) {
	if repos.db == nil {
		return
	}
	if err := repos.db.Close(); err != nil {
		logger.Warn("close postgres failed", "error", err)
	}
}
