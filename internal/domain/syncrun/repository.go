package syncrun

import (
	"context"
	"time"
)

type RunRepository interface {
	// Save upserts by run id.
	Save(ctx context.Context, run Run) error
	GetByID(ctx context.Context, runID string) (Run, bool, error)
	ListRecent(ctx context.Context, limit int) ([]Run, error)
}

type LeaseRepository interface {
	// Acquire succeeds when the lease is free, expired or already held by holder.
	Acquire(ctx context.Context, name, holder string, now time.Time, ttl time.Duration) (bool, error)
	// Renew extends a lease held by holder; it reports false when the lease was lost.
	Renew(ctx context.Context, name, holder string, now time.Time, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name, holder string) error
}
