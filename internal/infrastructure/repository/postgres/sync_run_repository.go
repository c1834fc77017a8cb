package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/golf-catalog/internal/domain/syncrun"
	qb "github.com/riskibarqy/golf-catalog/internal/platform/querybuilder"
)

type SyncRunRepository struct {
	db *sqlx.DB
}

func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

func (r *SyncRunRepository) Save(ctx context.Context, run syncrun.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validate sync run: %w", err)
	}

	query, args, err := qb.InsertModel("sync_runs", syncRunToModel(run), `ON CONFLICT (id)
DO UPDATE SET
    status = EXCLUDED.status,
    total = EXCLUDED.total,
    processed = EXCLUDED.processed,
    created_count = EXCLUDED.created_count,
    updated_count = EXCLUDED.updated_count,
    skipped_count = EXCLUDED.skipped_count,
    failed_count = EXCLUDED.failed_count,
    elapsed_ms = EXCLUDED.elapsed_ms,
    last_error = EXCLUDED.last_error,
    started_at = COALESCE(EXCLUDED.started_at, sync_runs.started_at),
    finished_at = EXCLUDED.finished_at,
    trace_id = COALESCE(EXCLUDED.trace_id, sync_runs.trace_id),
    span_id = COALESCE(EXCLUDED.span_id, sync_runs.span_id),
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert sync run query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert sync run id=%s status=%s: %w", run.ID, run.Status, err)
	}
	return nil
}

func (r *SyncRunRepository) GetByID(ctx context.Context, runID string) (syncrun.Run, bool, error) {
	query, args, err := syncRunBaseSelectBuilder().
		Where(qb.Eq("id", runID)).
		ToSQL()
	if err != nil {
		return syncrun.Run{}, false, fmt.Errorf("build get sync run query: %w", err)
	}

	var row syncRunTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return syncrun.Run{}, false, nil
		}
		return syncrun.Run{}, false, fmt.Errorf("get sync run id=%s: %w", runID, err)
	}

	return syncRunFromRow(row), true, nil
}

func (r *SyncRunRepository) ListRecent(ctx context.Context, limit int) ([]syncrun.Run, error) {
	query, args, err := syncRunBaseSelectBuilder().
		OrderBy("queued_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sync runs query: %w", err)
	}

	var rows []syncRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}

	out := make([]syncrun.Run, 0, len(rows))
	for _, row := range rows {
		out = append(out, syncRunFromRow(row))
	}
	return out, nil
}

func syncRunBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(qb.Columns(syncRunTableModel{})...).From("sync_runs")
}
