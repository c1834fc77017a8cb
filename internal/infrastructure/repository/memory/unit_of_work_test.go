package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/golf-catalog/internal/domain/course"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_RollsBackEveryWriteOnError(t *testing.T) {
	ctx := context.Background()
	layouts := NewLayoutRepository()
	courses := NewCourseRepository(layouts)
	uow := NewUnitOfWork(courses, layouts)

	holder := newStoredCourse("c1", "A", "Pine Valley", "NJ")
	require.NoError(t, courses.Create(ctx, holder))
	_, err := layouts.UpsertTees(ctx, "c1", []course.Tee{{ID: "t1", Index: 0, Name: "Black"}})
	require.NoError(t, err)

	errBoom := errors.New("connection reset")
	err = uow.WithinTx(ctx, func(ctx context.Context, courses course.Repository, layouts course.LayoutRepository) error {
		if err := courses.ReleaseMatchKeys(ctx, "c1"); err != nil {
			return err
		}
		if err := courses.Create(ctx, newStoredCourse("c2", "B", "Pine Valley", "NJ")); err != nil {
			return err
		}
		if _, err := layouts.UpsertTees(ctx, "c1", []course.Tee{{ID: "t1", Index: 0, Name: "Gold"}, {ID: "t2", Index: 1, Name: "White"}}); err != nil {
			return err
		}
		if _, err := layouts.UpsertTees(ctx, "c2", []course.Tee{{ID: "t3", Index: 0, Name: "Red"}}); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	restored, found, err := courses.GetByNameLocationKey(ctx, holder.NameLocationKey)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "c1", restored.ID)
	require.Equal(t, holder.Fingerprint, restored.Fingerprint)

	_, found, err = courses.GetByExternalID(ctx, "B")
	require.NoError(t, err)
	require.False(t, found, "course created inside a failed unit must be gone")

	tees, err := layouts.ListTees(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, tees, 1)
	require.Equal(t, "Black", tees[0].Name)

	tees, err = layouts.ListTees(ctx, "c2")
	require.NoError(t, err)
	require.Empty(t, tees)
}

func TestUnitOfWork_RollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	courses := NewCourseRepository(nil)
	uow := NewUnitOfWork(courses, NewLayoutRepository())

	require.Panics(t, func() {
		_ = uow.WithinTx(ctx, func(ctx context.Context, courses course.Repository, _ course.LayoutRepository) error {
			if err := courses.Create(ctx, newStoredCourse("c1", "A", "Augusta National", "GA")); err != nil {
				return err
			}
			panic("corrupt row")
		})
	})

	count, err := courses.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestUnitOfWork_KeepsWritesOnSuccess(t *testing.T) {
	ctx := context.Background()
	courses := NewCourseRepository(nil)
	uow := NewUnitOfWork(courses, NewLayoutRepository())

	err := uow.WithinTx(ctx, func(ctx context.Context, courses course.Repository, _ course.LayoutRepository) error {
		return courses.Create(ctx, newStoredCourse("c1", "A", "Augusta National", "GA"))
	})
	require.NoError(t, err)

	_, found, err := courses.GetByExternalID(ctx, "A")
	require.NoError(t, err)
	require.True(t, found)
}
