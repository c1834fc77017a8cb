package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/golf-catalog/internal/domain/course"
)

type CourseRepository struct {
	mu         sync.RWMutex
	items      map[string]course.Course
	byExternal map[string]string
	byNameLoc  map[string]string
	byPrint    map[string]string
	layout     *LayoutRepository
}

// NewCourseRepository keeps unique indexes on external id, name-location key and fingerprint.
// Deleting a course cascades into layout when it is non-nil.
func NewCourseRepository(layout *LayoutRepository) *CourseRepository {
	return &CourseRepository{
		items:      make(map[string]course.Course),
		byExternal: make(map[string]string),
		byNameLoc:  make(map[string]string),
		byPrint:    make(map[string]string),
		layout:     layout,
	}
}

func (r *CourseRepository) GetByExternalID(_ context.Context, externalID string) (course.Course, bool, error) {
	return r.lookup(r.byExternal, externalID)
}

func (r *CourseRepository) GetByNameLocationKey(_ context.Context, key string) (course.Course, bool, error) {
	return r.lookup(r.byNameLoc, key)
}

func (r *CourseRepository) GetByFingerprint(_ context.Context, fingerprint string) (course.Course, bool, error) {
	return r.lookup(r.byPrint, fingerprint)
}

func (r *CourseRepository) lookup(index map[string]string, key string) (course.Course, bool, error) {
	if key == "" {
		return course.Course{}, false, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := index[key]
	if !ok {
		return course.Course{}, false, nil
	}
	return cloneCourse(r.items[id]), true, nil
}

func (r *CourseRepository) Create(ctx context.Context, c course.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[c.ID]; exists {
		return fmt.Errorf("%w: id %q", course.ErrDuplicateKey, c.ID)
	}
	if err := r.checkUniqueLocked(c); err != nil {
		return err
	}

	r.journalLocked(ctx, c.ID)
	r.items[c.ID] = cloneCourse(c)
	r.indexLocked(c)
	return nil
}

func (r *CourseRepository) Update(ctx context.Context, c course.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.items[c.ID]
	if !exists {
		return fmt.Errorf("course %s not found", c.ID)
	}
	if err := r.checkUniqueLocked(c); err != nil {
		return err
	}

	r.journalLocked(ctx, c.ID)
	r.unindexLocked(current)
	c.CreatedAt = current.CreatedAt
	r.items[c.ID] = cloneCourse(c)
	r.indexLocked(c)
	return nil
}

func (r *CourseRepository) ReleaseMatchKeys(ctx context.Context, courseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.items[courseID]
	if !exists {
		return nil
	}
	r.journalLocked(ctx, courseID)

	r.unindexLocked(current)
	current.Fingerprint = ""
	current.NameLocationKey = ""
	r.items[courseID] = current
	r.indexLocked(current)
	return nil
}

func (r *CourseRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items), nil
}

func (r *CourseRepository) ListSummaries(_ context.Context) ([]course.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]course.Summary, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, course.Summary{
			ID:              item.ID,
			ExternalID:      item.ExternalID,
			DisplayName:     item.DisplayName,
			Location:        item.Location,
			NameLocationKey: item.NameLocationKey,
			SyncedAt:        item.SyncedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DisplayName < out[j].DisplayName
	})
	return out, nil
}

// DeleteByIDs is not journaled; orphan deletion never runs inside a unit of work.
func (r *CourseRepository) DeleteByIDs(_ context.Context, ids []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := make([]string, 0, len(ids))
	for _, id := range ids {
		item, ok := r.items[id]
		if !ok {
			continue
		}
		r.unindexLocked(item)
		delete(r.items, id)
		deleted = append(deleted, id)
	}
	if r.layout != nil && len(deleted) > 0 {
		r.layout.deleteCourses(deleted)
	}
	return len(deleted), nil
}

// journalLocked snapshots course id for rollback on its first write in a unit of work.
func (r *CourseRepository) journalLocked(ctx context.Context, id string) {
	j := journalFrom(ctx)
	if j == nil || !j.claim("course:"+id) {
		return
	}
	prev, existed := r.items[id]
	prev = cloneCourse(prev)
	j.add(func() { r.restore(id, prev, existed) })
}

func (r *CourseRepository) restore(id string, prev course.Course, existed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.items[id]; ok {
		r.unindexLocked(current)
		delete(r.items, id)
	}
	if existed {
		r.items[id] = prev
		r.indexLocked(prev)
	}
}

func (r *CourseRepository) checkUniqueLocked(c course.Course) error {
	if holder, ok := r.byExternal[c.ExternalID]; ok && holder != c.ID {
		return fmt.Errorf("%w: external_id %q held by %s", course.ErrDuplicateKey, c.ExternalID, holder)
	}
	if c.NameLocationKey != "" {
		if holder, ok := r.byNameLoc[c.NameLocationKey]; ok && holder != c.ID {
			return fmt.Errorf("%w: name_location_key %q held by %s", course.ErrDuplicateKey, c.NameLocationKey, holder)
		}
	}
	if c.Fingerprint != "" {
		if holder, ok := r.byPrint[c.Fingerprint]; ok && holder != c.ID {
			return fmt.Errorf("%w: fingerprint %q held by %s", course.ErrDuplicateKey, c.Fingerprint, holder)
		}
	}
	return nil
}

func (r *CourseRepository) indexLocked(c course.Course) {
	r.byExternal[c.ExternalID] = c.ID
	if c.NameLocationKey != "" {
		r.byNameLoc[c.NameLocationKey] = c.ID
	}
	if c.Fingerprint != "" {
		r.byPrint[c.Fingerprint] = c.ID
	}
}

func (r *CourseRepository) unindexLocked(c course.Course) {
	if r.byExternal[c.ExternalID] == c.ID {
		delete(r.byExternal, c.ExternalID)
	}
	if r.byNameLoc[c.NameLocationKey] == c.ID {
		delete(r.byNameLoc, c.NameLocationKey)
	}
	if r.byPrint[c.Fingerprint] == c.ID {
		delete(r.byPrint, c.Fingerprint)
	}
}

func cloneCourse(c course.Course) course.Course {
	copied := c
	copied.Tags = append([]string(nil), c.Tags...)
	return copied
}
