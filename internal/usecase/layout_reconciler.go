package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/golf-catalog/internal/domain/course"
	"github.com/riskibarqy/golf-catalog/internal/platform/id"
)

type LayoutResult struct {
	Tees     int
	Holes    int
	HoleTees int
}

// LayoutReconciler makes tees, holes and hole-tee rows of a course match the latest record.
// Tees and holes keep their row identity by (course, index); rows past the new length are
// deleted. Upstream gives no sub-entity ids, so position is the key and a reorder upstream
// re-maps rows.
type LayoutReconciler struct {
	layoutRepo course.LayoutRepository
	idGen      id.Generator
}

func NewLayoutReconciler(layoutRepo course.LayoutRepository, idGen id.Generator) *LayoutReconciler {
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}
	return &LayoutReconciler{layoutRepo: layoutRepo, idGen: idGen}
}

func (r *LayoutReconciler) Reconcile(ctx context.Context, courseID string, record ExternalCourse) (LayoutResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LayoutReconciler.Reconcile")
	defer span.End()

	tees, err := r.syncTees(ctx, courseID, record.Tees)
	if err != nil {
		return LayoutResult{}, err
	}
	holes, err := r.syncHoles(ctx, courseID, record.Holes)
	if err != nil {
		return LayoutResult{}, err
	}

	measurements := buildHoleTees(record.Holes, holes, tees)
	if err := r.layoutRepo.UpsertHoleTees(ctx, courseID, measurements); err != nil {
		return LayoutResult{}, fmt.Errorf("upsert hole tees course_id=%s: %w", courseID, err)
	}

	return LayoutResult{Tees: len(tees), Holes: len(holes), HoleTees: len(measurements)}, nil
}

func (r *LayoutReconciler) syncTees(ctx context.Context, courseID string, items []ExternalTee) ([]course.Tee, error) {
	tees := make([]course.Tee, 0, len(items))
	for i, item := range items {
		teeID, err := r.idGen.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate tee id: %w", err)
		}
		tees = append(tees, course.Tee{
			ID:           teeID,
			CourseID:     courseID,
			Index:        i,
			Name:         item.Name,
			Gender:       item.Gender,
			Kind:         item.Kind,
			Par:          item.Par,
			Distance:     item.CourseDistance,
			CourseRating: item.CourseRating,
			Slope:        item.Slope,
		})
	}

	var stored []course.Tee
	if len(tees) > 0 {
		var err error
		stored, err = r.layoutRepo.UpsertTees(ctx, courseID, tees)
		if err != nil {
			return nil, fmt.Errorf("upsert tees course_id=%s: %w", courseID, err)
		}
		if len(stored) != len(tees) {
			return nil, fmt.Errorf("upsert tees course_id=%s: stored %d rows, expected %d", courseID, len(stored), len(tees))
		}
	}
	if err := r.layoutRepo.DeleteTeesFrom(ctx, courseID, len(tees)); err != nil {
		return nil, fmt.Errorf("delete stale tees course_id=%s: %w", courseID, err)
	}
	return stored, nil
}

func (r *LayoutReconciler) syncHoles(ctx context.Context, courseID string, items []ExternalHole) ([]course.Hole, error) {
	holes := make([]course.Hole, 0, len(items))
	for i, item := range items {
		holeID, err := r.idGen.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate hole id: %w", err)
		}
		holes = append(holes, course.Hole{
			ID:        holeID,
			CourseID:  courseID,
			Index:     i,
			Name:      item.Name,
			ImageURLs: append([]string(nil), item.ImageURLs...),
		})
	}

	var stored []course.Hole
	if len(holes) > 0 {
		var err error
		stored, err = r.layoutRepo.UpsertHoles(ctx, courseID, holes)
		if err != nil {
			return nil, fmt.Errorf("upsert holes course_id=%s: %w", courseID, err)
		}
		if len(stored) != len(holes) {
			return nil, fmt.Errorf("upsert holes course_id=%s: stored %d rows, expected %d", courseID, len(stored), len(holes))
		}
	}
	if err := r.layoutRepo.DeleteHolesFrom(ctx, courseID, len(holes)); err != nil {
		return nil, fmt.Errorf("delete stale holes course_id=%s: %w", courseID, err)
	}
	return stored, nil
}

// buildHoleTees joins per-hole measurements to tees by array position. Pairs outside
// either id list are dropped.
func buildHoleTees(items []ExternalHole, holes []course.Hole, tees []course.Tee) []course.HoleTee {
	out := make([]course.HoleTee, 0, len(holes)*len(tees))
	for i, item := range items {
		if i >= len(holes) {
			break
		}
		for j, measurement := range item.Tees {
			if j >= len(tees) {
				break
			}
			out = append(out, course.HoleTee{
				HoleID:      holes[i].ID,
				TeeID:       tees[j].ID,
				Distance:    measurement.Distance,
				StrokeIndex: measurement.StrokeIndex,
				Par:         measurement.Par,
			})
		}
	}
	return out
}
