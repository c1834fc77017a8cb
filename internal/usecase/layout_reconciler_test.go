package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/golf-catalog/internal/domain/course"
	coursemock "github.com/riskibarqy/golf-catalog/internal/mocks/domain/course"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLayoutReconciler_GrowingTeeListKeepsExistingRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemoryCatalog()
	reconciler := NewLayoutReconciler(store.layout, &sequenceIDGenerator{prefix: "layout"})

	record := pineValley("A")
	_, err := reconciler.Reconcile(ctx, "course-1", record)
	require.NoError(t, err)
	before, err := store.layout.ListTees(ctx, "course-1")
	require.NoError(t, err)
	require.Len(t, before, 2)

	record.Tees = append(record.Tees, ExternalTee{Name: "Forward", Par: intPtr(71)})
	result, err := reconciler.Reconcile(ctx, "course-1", record)
	require.NoError(t, err)
	require.Equal(t, 3, result.Tees)

	after, err := store.layout.ListTees(ctx, "course-1")
	require.NoError(t, err)
	require.Len(t, after, 3)
	for i, tee := range after {
		require.Equal(t, i, tee.Index)
	}
	require.Equal(t, before[0].ID, after[0].ID)
	require.Equal(t, before[1].ID, after[1].ID)
	require.Equal(t, "Forward", after[2].Name)
}

func TestLayoutReconciler_ShrinkingDeletesStaleRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemoryCatalog()
	reconciler := NewLayoutReconciler(store.layout, &sequenceIDGenerator{prefix: "layout"})

	record := pineValley("A")
	_, err := reconciler.Reconcile(ctx, "course-1", record)
	require.NoError(t, err)

	record.Tees = record.Tees[:1]
	record.Holes = record.Holes[:1]
	result, err := reconciler.Reconcile(ctx, "course-1", record)
	require.NoError(t, err)
	require.Equal(t, LayoutResult{Tees: 1, Holes: 1, HoleTees: 1}, result)

	tees, err := store.layout.ListTees(ctx, "course-1")
	require.NoError(t, err)
	require.Len(t, tees, 1)
	holes, err := store.layout.ListHoles(ctx, "course-1")
	require.NoError(t, err)
	require.Len(t, holes, 1)
	measurements, err := store.layout.ListHoleTees(ctx, "course-1")
	require.NoError(t, err)
	require.Len(t, measurements, 1)
	require.Equal(t, holes[0].ID, measurements[0].HoleID)
	require.Equal(t, tees[0].ID, measurements[0].TeeID)
}

func TestLayoutReconciler_IsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemoryCatalog()
	reconciler := NewLayoutReconciler(store.layout, &sequenceIDGenerator{prefix: "layout"})

	_, err := reconciler.Reconcile(ctx, "course-1", pineValley("A"))
	require.NoError(t, err)
	firstTees, _ := store.layout.ListTees(ctx, "course-1")
	firstHoles, _ := store.layout.ListHoles(ctx, "course-1")
	firstMeasurements, _ := store.layout.ListHoleTees(ctx, "course-1")

	_, err = reconciler.Reconcile(ctx, "course-1", pineValley("A"))
	require.NoError(t, err)
	secondTees, _ := store.layout.ListTees(ctx, "course-1")
	secondHoles, _ := store.layout.ListHoles(ctx, "course-1")
	secondMeasurements, _ := store.layout.ListHoleTees(ctx, "course-1")

	require.Equal(t, firstTees, secondTees)
	require.Equal(t, firstHoles, secondHoles)
	require.Equal(t, firstMeasurements, secondMeasurements)
}

func TestBuildHoleTees_DropsOutOfRangePairs(t *testing.T) {
	t.Parallel()

	holes := []course.Hole{{ID: "h0", Index: 0}}
	tees := []course.Tee{{ID: "t0", Index: 0}, {ID: "t1", Index: 1}}
	items := []ExternalHole{
		{Tees: []ExternalHoleTee{{Par: intPtr(4)}, {Par: intPtr(4)}, {Par: intPtr(5)}}},
		{Tees: []ExternalHoleTee{{Par: intPtr(3)}}},
	}

	got := buildHoleTees(items, holes, tees)
	if len(got) != 2 {
		t.Fatalf("expected 2 measurements, got=%d", len(got))
	}
	if got[0].HoleID != "h0" || got[0].TeeID != "t0" || got[1].TeeID != "t1" {
		t.Fatalf("unexpected measurements: %+v", got)
	}
}

func TestLayoutReconciler_StopsOnUpsertFailure(t *testing.T) {
	t.Parallel()

	repo := coursemock.NewLayoutRepository(t)
	upsertErr := errors.New("deadlock detected")
	repo.On("UpsertTees", mock.Anything, "course-1", mock.Anything).Return(nil, upsertErr).Once()

	reconciler := NewLayoutReconciler(repo, &sequenceIDGenerator{prefix: "layout"})
	_, err := reconciler.Reconcile(context.Background(), "course-1", pineValley("A"))
	require.ErrorIs(t, err, upsertErr)
	repo.AssertNotCalled(t, "UpsertHoles", mock.Anything, mock.Anything, mock.Anything)
}
