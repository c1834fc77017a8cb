package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/golf-catalog/internal/domain/course"
)

type journalKey struct{}

// journal collects the undo steps of one unit of work. Each row is snapshotted once, on its
// first write, so rollback restores the state from before the unit started.
type journal struct {
	mu      sync.Mutex
	claimed map[string]struct{}
	undo    []func()
}

func journalFrom(ctx context.Context) *journal {
	j, _ := ctx.Value(journalKey{}).(*journal)
	return j
}

// claim reports whether key is touched for the first time in this unit.
func (j *journal) claim(key string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	if _, ok := j.claimed[key]; ok {
		return false
	}
	j.claimed[key] = struct{}{}
	return true
}

func (j *journal) add(fn func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.undo = append(j.undo, fn)
}

func (j *journal) rollback() {
	j.mu.Lock()
	undo := j.undo
	j.undo = nil
	j.mu.Unlock()

	for i := len(undo) - 1; i >= 0; i-- {
		undo[i]()
	}
}

// UnitOfWork runs units one at a time over the shared in-memory repositories.
type UnitOfWork struct {
	mu      sync.Mutex
	courses course.Repository
	layouts course.LayoutRepository
}

// NewUnitOfWork accepts any repositories that delegate to this package's implementations;
// their writes are journaled through the context.
func NewUnitOfWork(courses course.Repository, layouts course.LayoutRepository) *UnitOfWork {
	return &UnitOfWork{courses: courses, layouts: layouts}
}

func (u *UnitOfWork) WithinTx(ctx context.Context, fn course.TxFunc) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	j := &journal{claimed: make(map[string]struct{})}
	committed := false
	defer func() {
		if !committed {
			j.rollback()
		}
	}()

	if err := fn(context.WithValue(ctx, journalKey{}, j), u.courses, u.layouts); err != nil {
		return err
	}
	committed = true
	return nil
}
