package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/golf-catalog/internal/domain/syncrun"
)

type SyncRunRepository struct {
	mu    sync.RWMutex
	items map[string]syncrun.Run
}

func NewSyncRunRepository() *SyncRunRepository {
	return &SyncRunRepository{items: make(map[string]syncrun.Run)}
}

func (r *SyncRunRepository) Save(_ context.Context, run syncrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[run.ID] = cloneRun(run)
	return nil
}

func (r *SyncRunRepository) GetByID(_ context.Context, runID string) (syncrun.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.items[runID]
	if !ok {
		return syncrun.Run{}, false, nil
	}
	return cloneRun(run), true, nil
}

func (r *SyncRunRepository) ListRecent(_ context.Context, limit int) ([]syncrun.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]syncrun.Run, 0, len(r.items))
	for _, run := range r.items {
		out = append(out, cloneRun(run))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QueuedAt.Equal(out[j].QueuedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].QueuedAt.After(out[j].QueuedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cloneRun(run syncrun.Run) syncrun.Run {
	copied := run
	copied.StartedAt = cloneTime(run.StartedAt)
	copied.FinishedAt = cloneTime(run.FinishedAt)
	return copied
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	t := *v
	return &t
}
