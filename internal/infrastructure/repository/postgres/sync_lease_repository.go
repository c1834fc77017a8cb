package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	qb "github.com/riskibarqy/golf-catalog/internal/platform/querybuilder"
)

type SyncLeaseRepository struct {
	db *sqlx.DB
}

func NewSyncLeaseRepository(db *sqlx.DB) *SyncLeaseRepository {
	return &SyncLeaseRepository{db: db}
}

type syncLeaseInsertModel struct {
	Name       string    `db:"name"`
	Holder     string    `db:"holder"`
	AcquiredAt time.Time `db:"acquired_at"`
	ExpiresAt  time.Time `db:"expires_at"`
}

// Acquire takes the lease when it is free, expired or already ours. The conditional
// upsert returns no row when another holder still owns it.
func (r *SyncLeaseRepository) Acquire(ctx context.Context, name, holder string, now time.Time, ttl time.Duration) (bool, error) {
	model := syncLeaseInsertModel{
		Name:       name,
		Holder:     holder,
		AcquiredAt: now.UTC(),
		ExpiresAt:  now.Add(ttl).UTC(),
	}
	query, args, err := qb.InsertModel("sync_leases", model, `ON CONFLICT (name)
DO UPDATE SET
    holder = EXCLUDED.holder,
    acquired_at = EXCLUDED.acquired_at,
    expires_at = EXCLUDED.expires_at
WHERE sync_leases.holder = EXCLUDED.holder OR sync_leases.expires_at <= EXCLUDED.acquired_at
RETURNING holder`)
	if err != nil {
		return false, fmt.Errorf("build acquire lease query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("acquire lease name=%s holder=%s: %w", name, holder, err)
	}
	defer rows.Close()

	acquired := rows.Next()
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("read acquire lease result: %w", err)
	}
	return acquired, nil
}

func (r *SyncLeaseRepository) Renew(ctx context.Context, name, holder string, now time.Time, ttl time.Duration) (bool, error) {
	query, args, err := qb.Update("sync_leases").
		Set("expires_at", now.Add(ttl).UTC()).
		Where(qb.Eq("name", name), qb.Eq("holder", holder)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build renew lease query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("renew lease name=%s holder=%s: %w", name, holder, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read renew lease rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *SyncLeaseRepository) Release(ctx context.Context, name, holder string) error {
	query, args, err := qb.DeleteFrom("sync_leases").
		Where(qb.Eq("name", name), qb.Eq("holder", holder)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build release lease query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("release lease name=%s holder=%s: %w", name, holder, err)
	}
	return nil
}
