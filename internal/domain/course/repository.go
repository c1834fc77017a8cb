package course

import (
	"context"
	"errors"
)

// ErrDuplicateKey reports a unique key already held by another course row.
var ErrDuplicateKey = errors.New("course unique key conflict")

// Repository describes course persistence needs of the sync engine.
type Repository interface {
	GetByExternalID(ctx context.Context, externalID string) (Course, bool, error)
	GetByNameLocationKey(ctx context.Context, key string) (Course, bool, error)
	GetByFingerprint(ctx context.Context, fingerprint string) (Course, bool, error)
	Create(ctx context.Context, c Course) error
	Update(ctx context.Context, c Course) error
	// ReleaseMatchKeys clears fingerprint and name-location key of a course so another
	// course can take them over.
	ReleaseMatchKeys(ctx context.Context, courseID string) error
	Count(ctx context.Context) (int, error)
	ListSummaries(ctx context.Context) ([]Summary, error)
	DeleteByIDs(ctx context.Context, ids []string) (int, error)
}

// LayoutRepository persists tees, holes and hole-tee measurements of a course.
type LayoutRepository interface {
	// UpsertTees upserts by (course_id, tee_index) and returns the rows in index order.
	UpsertTees(ctx context.Context, courseID string, tees []Tee) ([]Tee, error)
	DeleteTeesFrom(ctx context.Context, courseID string, fromIndex int) error
	UpsertHoles(ctx context.Context, courseID string, holes []Hole) ([]Hole, error)
	DeleteHolesFrom(ctx context.Context, courseID string, fromIndex int) error
	// UpsertHoleTees upserts by (hole_id, tee_id) and prunes the course's rows not in items.
	UpsertHoleTees(ctx context.Context, courseID string, items []HoleTee) error
	ListTees(ctx context.Context, courseID string) ([]Tee, error)
	ListHoles(ctx context.Context, courseID string) ([]Hole, error)
	ListHoleTees(ctx context.Context, courseID string) ([]HoleTee, error)
}

// TxFunc receives repositories bound to one unit of work.
type TxFunc func(ctx context.Context, courses Repository, layouts LayoutRepository) error

// UnitOfWork groups the writes of one record. Nothing fn wrote survives when it returns an
// error or panics.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}
