package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/golf-catalog/internal/domain/course"
	"github.com/stretchr/testify/require"
)

func newStoredCourse(id, externalID, name, location string) course.Course {
	c := course.Course{ID: id, ExternalID: externalID, DisplayName: name, Location: location}
	c.DeriveKeys()
	return c
}

func TestCourseRepository_EnforcesUniqueKeys(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository(nil)

	require.NoError(t, repo.Create(ctx, newStoredCourse("c1", "A", "Pine Valley", "NJ")))

	err := repo.Create(ctx, newStoredCourse("c2", "B", "pine  valley", "nj"))
	require.True(t, errors.Is(err, course.ErrDuplicateKey), "expected duplicate name-location key, got %v", err)

	err = repo.Create(ctx, newStoredCourse("c3", "A", "Augusta National", "GA"))
	require.True(t, errors.Is(err, course.ErrDuplicateKey), "expected duplicate external id, got %v", err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestCourseRepository_UpdateReindexes(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository(nil)
	stored := newStoredCourse("c1", "A", "Pine Valley", "NJ")
	require.NoError(t, repo.Create(ctx, stored))

	stored.ExternalID = "B"
	require.NoError(t, repo.Update(ctx, stored))

	_, found, err := repo.GetByExternalID(ctx, "A")
	require.NoError(t, err)
	require.False(t, found, "old external id must be abandoned")

	got, found, err := repo.GetByExternalID(ctx, "B")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "c1", got.ID)
}

func TestCourseRepository_ReleaseMatchKeys(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository(nil)
	stored := newStoredCourse("c1", "A", "Pine Valley", "NJ")
	require.NoError(t, repo.Create(ctx, stored))

	require.NoError(t, repo.ReleaseMatchKeys(ctx, "c1"))

	_, found, err := repo.GetByNameLocationKey(ctx, stored.NameLocationKey)
	require.NoError(t, err)
	require.False(t, found)
	_, found, err = repo.GetByFingerprint(ctx, stored.Fingerprint)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, repo.Create(ctx, newStoredCourse("c2", "B", "Pine Valley", "NJ")))
}

func TestCourseRepository_DeleteCascadesLayout(t *testing.T) {
	ctx := context.Background()
	layout := NewLayoutRepository()
	repo := NewCourseRepository(layout)
	require.NoError(t, repo.Create(ctx, newStoredCourse("c1", "A", "Pine Valley", "NJ")))

	tees, err := layout.UpsertTees(ctx, "c1", []course.Tee{{ID: "t0", Index: 0}})
	require.NoError(t, err)
	holes, err := layout.UpsertHoles(ctx, "c1", []course.Hole{{ID: "h0", Index: 0}})
	require.NoError(t, err)
	require.NoError(t, layout.UpsertHoleTees(ctx, "c1", []course.HoleTee{{HoleID: holes[0].ID, TeeID: tees[0].ID}}))

	deleted, err := repo.DeleteByIDs(ctx, []string{"c1", "missing"})
	require.NoError(t, err)
	require.Equal(t, 1, deleted)

	remaining, err := layout.ListTees(ctx, "c1")
	require.NoError(t, err)
	require.Empty(t, remaining)
	measurements, err := layout.ListHoleTees(ctx, "c1")
	require.NoError(t, err)
	require.Empty(t, measurements)
}
