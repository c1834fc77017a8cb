package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/golf-catalog/internal/domain/syncrun"
)

type SyncLeaseRepository struct {
	mu     sync.Mutex
	leases map[string]syncrun.Lease
}

func NewSyncLeaseRepository() *SyncLeaseRepository {
	return &SyncLeaseRepository{leases: make(map[string]syncrun.Lease)}
}

func (r *SyncLeaseRepository) Acquire(_ context.Context, name, holder string, now time.Time, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.leases[name]
	if ok && current.Holder != holder && !current.Expired(now) {
		return false, nil
	}

	r.leases[name] = syncrun.Lease{
		Name:       name,
		Holder:     holder,
		AcquiredAt: now,
		ExpiresAt:  now.Add(ttl),
	}
	return true, nil
}

func (r *SyncLeaseRepository) Renew(_ context.Context, name, holder string, now time.Time, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.leases[name]
	if !ok || current.Holder != holder {
		return false, nil
	}
	current.ExpiresAt = now.Add(ttl)
	r.leases[name] = current
	return true, nil
}

func (r *SyncLeaseRepository) Release(_ context.Context, name, holder string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.leases[name]; ok && current.Holder == holder {
		delete(r.leases, name)
	}
	return nil
}
