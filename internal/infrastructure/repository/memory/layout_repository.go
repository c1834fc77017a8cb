package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/golf-catalog/internal/domain/course"
)

type LayoutRepository struct {
	mu       sync.RWMutex
	tees     map[string]map[int]course.Tee
	holes    map[string]map[int]course.Hole
	holeTees map[string]map[string]course.HoleTee
}

func NewLayoutRepository() *LayoutRepository {
	return &LayoutRepository{
		tees:     make(map[string]map[int]course.Tee),
		holes:    make(map[string]map[int]course.Hole),
		holeTees: make(map[string]map[string]course.HoleTee),
	}
}

func (r *LayoutRepository) UpsertTees(ctx context.Context, courseID string, tees []course.Tee) ([]course.Tee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.journalLocked(ctx, courseID)

	byIndex := r.tees[courseID]
	if byIndex == nil {
		byIndex = make(map[int]course.Tee)
		r.tees[courseID] = byIndex
	}

	out := make([]course.Tee, 0, len(tees))
	for _, tee := range tees {
		tee.CourseID = courseID
		if existing, ok := byIndex[tee.Index]; ok {
			tee.ID = existing.ID
		}
		byIndex[tee.Index] = tee
		out = append(out, tee)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (r *LayoutRepository) DeleteTeesFrom(ctx context.Context, courseID string, fromIndex int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.journalLocked(ctx, courseID)

	for idx, tee := range r.tees[courseID] {
		if idx < fromIndex {
			continue
		}
		delete(r.tees[courseID], idx)
		for holeID := range r.holeTees {
			delete(r.holeTees[holeID], tee.ID)
		}
	}
	return nil
}

func (r *LayoutRepository) UpsertHoles(ctx context.Context, courseID string, holes []course.Hole) ([]course.Hole, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.journalLocked(ctx, courseID)

	byIndex := r.holes[courseID]
	if byIndex == nil {
		byIndex = make(map[int]course.Hole)
		r.holes[courseID] = byIndex
	}

	out := make([]course.Hole, 0, len(holes))
	for _, hole := range holes {
		hole.CourseID = courseID
		hole.ImageURLs = append([]string(nil), hole.ImageURLs...)
		if existing, ok := byIndex[hole.Index]; ok {
			hole.ID = existing.ID
		}
		byIndex[hole.Index] = hole
		out = append(out, hole)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (r *LayoutRepository) DeleteHolesFrom(ctx context.Context, courseID string, fromIndex int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.journalLocked(ctx, courseID)

	for idx, hole := range r.holes[courseID] {
		if idx < fromIndex {
			continue
		}
		delete(r.holes[courseID], idx)
		delete(r.holeTees, hole.ID)
	}
	return nil
}

func (r *LayoutRepository) UpsertHoleTees(ctx context.Context, courseID string, items []course.HoleTee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.journalLocked(ctx, courseID)

	keep := make(map[string]map[string]struct{}, len(items))
	for _, item := range items {
		if keep[item.HoleID] == nil {
			keep[item.HoleID] = make(map[string]struct{})
		}
		keep[item.HoleID][item.TeeID] = struct{}{}
	}

	for _, hole := range r.holes[courseID] {
		for teeID := range r.holeTees[hole.ID] {
			if _, ok := keep[hole.ID][teeID]; !ok {
				delete(r.holeTees[hole.ID], teeID)
			}
		}
	}

	for _, item := range items {
		byTee := r.holeTees[item.HoleID]
		if byTee == nil {
			byTee = make(map[string]course.HoleTee)
			r.holeTees[item.HoleID] = byTee
		}
		byTee[item.TeeID] = item
	}
	return nil
}

func (r *LayoutRepository) ListTees(_ context.Context, courseID string) ([]course.Tee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]course.Tee, 0, len(r.tees[courseID]))
	for _, tee := range r.tees[courseID] {
		out = append(out, tee)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (r *LayoutRepository) ListHoles(_ context.Context, courseID string) ([]course.Hole, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]course.Hole, 0, len(r.holes[courseID]))
	for _, hole := range r.holes[courseID] {
		hole.ImageURLs = append([]string(nil), hole.ImageURLs...)
		out = append(out, hole)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

// ListHoleTees returns rows ordered by hole index, then tee index.
func (r *LayoutRepository) ListHoleTees(_ context.Context, courseID string) ([]course.HoleTee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	holeIndex := make(map[string]int, len(r.holes[courseID]))
	for idx, hole := range r.holes[courseID] {
		holeIndex[hole.ID] = idx
	}
	teeIndex := make(map[string]int, len(r.tees[courseID]))
	for idx, tee := range r.tees[courseID] {
		teeIndex[tee.ID] = idx
	}

	out := make([]course.HoleTee, 0)
	for holeID := range holeIndex {
		for _, item := range r.holeTees[holeID] {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if holeIndex[out[i].HoleID] != holeIndex[out[j].HoleID] {
			return holeIndex[out[i].HoleID] < holeIndex[out[j].HoleID]
		}
		return teeIndex[out[i].TeeID] < teeIndex[out[j].TeeID]
	})
	return out, nil
}

func (r *LayoutRepository) deleteCourses(courseIDs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, courseID := range courseIDs {
		for _, hole := range r.holes[courseID] {
			delete(r.holeTees, hole.ID)
		}
		delete(r.holes, courseID)
		delete(r.tees, courseID)
	}
}

type layoutSnapshot struct {
	tees     map[int]course.Tee
	holes    map[int]course.Hole
	holeTees map[string]map[string]course.HoleTee
}

// journalLocked snapshots the whole layout of a course on its first write in a unit of work.
func (r *LayoutRepository) journalLocked(ctx context.Context, courseID string) {
	j := journalFrom(ctx)
	if j == nil || !j.claim("layout:"+courseID) {
		return
	}

	snap := layoutSnapshot{holeTees: make(map[string]map[string]course.HoleTee)}
	if tees, ok := r.tees[courseID]; ok {
		snap.tees = make(map[int]course.Tee, len(tees))
		for idx, tee := range tees {
			snap.tees[idx] = tee
		}
	}
	if holes, ok := r.holes[courseID]; ok {
		snap.holes = make(map[int]course.Hole, len(holes))
		for idx, hole := range holes {
			hole.ImageURLs = append([]string(nil), hole.ImageURLs...)
			snap.holes[idx] = hole
			byTee := make(map[string]course.HoleTee, len(r.holeTees[hole.ID]))
			for teeID, item := range r.holeTees[hole.ID] {
				byTee[teeID] = item
			}
			snap.holeTees[hole.ID] = byTee
		}
	}
	j.add(func() { r.restore(courseID, snap) })
}

func (r *LayoutRepository) restore(courseID string, snap layoutSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, hole := range r.holes[courseID] {
		delete(r.holeTees, hole.ID)
	}
	if snap.tees == nil {
		delete(r.tees, courseID)
	} else {
		r.tees[courseID] = snap.tees
	}
	if snap.holes == nil {
		delete(r.holes, courseID)
	} else {
		r.holes[courseID] = snap.holes
	}
	for holeID, byTee := range snap.holeTees {
		r.holeTees[holeID] = byTee
	}
}
