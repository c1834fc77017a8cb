package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/golf-catalog/internal/config"
	"github.com/riskibarqy/golf-catalog/internal/domain/course"
	"github.com/riskibarqy/golf-catalog/internal/domain/syncrun"
	"github.com/riskibarqy/golf-catalog/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/golf-catalog/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/golf-catalog/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const (
	dbMaxOpenConns    = 10
	dbMaxIdleConns    = 5
	dbConnMaxLifetime = 30 * time.Minute
	dbPingTimeout     = 5 * time.Second
)

type repositories struct {
	courses course.Repository
	layouts course.LayoutRepository
	uow     course.UnitOfWork
	runs    syncrun.RunRepository
	leases  syncrun.LeaseRepository
	db      *sqlx.DB
}

func openRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store, catalog is lost on restart")
		layouts := memory.NewLayoutRepository()
		courses := memory.NewCourseRepository(layouts)
		return repositories{
			courses: courses,
			layouts: layouts,
			uow:     memory.NewUnitOfWork(courses, layouts),
			runs:    memory.NewSyncRunRepository(),
			leases:  memory.NewSyncLeaseRepository(),
		}, nil
	default:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return repositories{}, err
		}
		logger.Info("postgres store connected", "db_name", dbNameFromURL(cfg.DBURL))
		return repositories{
			courses: postgres.NewCourseRepository(db),
			layouts: postgres.NewLayoutRepository(db),
			uow:     postgres.NewUnitOfWork(db),
			runs:    postgres.NewSyncRunRepository(db),
			leases:  postgres.NewSyncLeaseRepository(db),
			db:      db,
		}, nil
	}
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}
