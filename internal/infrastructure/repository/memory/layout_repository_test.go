package memory

import (
	"context"
	"testing"

	"github.com/riskibarqy/golf-catalog/internal/domain/course"
	"github.com/stretchr/testify/require"
)

func TestLayoutRepository_UpsertTeesKeepsIdentityByIndex(t *testing.T) {
	ctx := context.Background()
	repo := NewLayoutRepository()

	first, err := repo.UpsertTees(ctx, "c1", []course.Tee{
		{ID: "t0", Index: 0, Name: "Black"},
		{ID: "t1", Index: 1, Name: "White"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"t0", "t1"}, []string{first[0].ID, first[1].ID})

	second, err := repo.UpsertTees(ctx, "c1", []course.Tee{
		{ID: "new-0", Index: 0, Name: "Championship"},
		{ID: "new-1", Index: 1, Name: "White"},
		{ID: "new-2", Index: 2, Name: "Red"},
	})
	require.NoError(t, err)
	require.Len(t, second, 3)
	require.Equal(t, "t0", second[0].ID)
	require.Equal(t, "Championship", second[0].Name)
	require.Equal(t, "t1", second[1].ID)
	require.Equal(t, "new-2", second[2].ID)
}

func TestLayoutRepository_DeleteFromAndPrune(t *testing.T) {
	ctx := context.Background()
	repo := NewLayoutRepository()

	tees, err := repo.UpsertTees(ctx, "c1", []course.Tee{{ID: "t0", Index: 0}, {ID: "t1", Index: 1}})
	require.NoError(t, err)
	holes, err := repo.UpsertHoles(ctx, "c1", []course.Hole{{ID: "h0", Index: 0}, {ID: "h1", Index: 1}})
	require.NoError(t, err)
	require.NoError(t, repo.UpsertHoleTees(ctx, "c1", []course.HoleTee{
		{HoleID: holes[0].ID, TeeID: tees[0].ID},
		{HoleID: holes[0].ID, TeeID: tees[1].ID},
		{HoleID: holes[1].ID, TeeID: tees[0].ID},
		{HoleID: holes[1].ID, TeeID: tees[1].ID},
	}))

	require.NoError(t, repo.DeleteTeesFrom(ctx, "c1", 1))
	require.NoError(t, repo.DeleteHolesFrom(ctx, "c1", 1))

	measurements, err := repo.ListHoleTees(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, []course.HoleTee{{HoleID: "h0", TeeID: "t0"}}, measurements)

	require.NoError(t, repo.UpsertHoleTees(ctx, "c1", nil))
	measurements, err = repo.ListHoleTees(ctx, "c1")
	require.NoError(t, err)
	require.Empty(t, measurements)
}
