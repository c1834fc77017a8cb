package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/golf-catalog/internal/domain/course"
	qb "github.com/riskibarqy/golf-catalog/internal/platform/querybuilder"
)

type LayoutRepository struct {
	db queryer
}

func NewLayoutRepository(db *sqlx.DB) *LayoutRepository {
	return &LayoutRepository{db: db}
}

func (r *LayoutRepository) UpsertTees(ctx context.Context, courseID string, tees []course.Tee) ([]course.Tee, error) {
	if len(tees) == 0 {
		return nil, nil
	}

	models := make([]teeTableModel, 0, len(tees))
	for _, tee := range tees {
		models = append(models, teeToModel(courseID, tee))
	}

	query, args, err := qb.InsertModels("course_tees", models, `ON CONFLICT (course_id, tee_index)
DO UPDATE SET
    name = EXCLUDED.name,
    gender = EXCLUDED.gender,
    kind = EXCLUDED.kind,
    par = EXCLUDED.par,
    course_distance = EXCLUDED.course_distance,
    course_rating = EXCLUDED.course_rating,
    slope = EXCLUDED.slope,
    updated_at = NOW()
RETURNING id, course_id, tee_index, name, gender, kind, par, course_distance, course_rating, slope`)
	if err != nil {
		return nil, fmt.Errorf("build upsert course tees query: %w", err)
	}

	var rows []teeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("upsert course tees course_id=%s count=%d: %w", courseID, len(tees), err)
	}

	out := make([]course.Tee, 0, len(rows))
	for _, row := range rows {
		out = append(out, teeFromRow(row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (r *LayoutRepository) DeleteTeesFrom(ctx context.Context, courseID string, fromIndex int) error {
	query, args, err := qb.DeleteFrom("course_tees").
		Where(qb.Eq("course_id", courseID), qb.Gte("tee_index", fromIndex)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete stale tees query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete stale tees course_id=%s from=%d: %w", courseID, fromIndex, err)
	}
	return nil
}

func (r *LayoutRepository) UpsertHoles(ctx context.Context, courseID string, holes []course.Hole) ([]course.Hole, error) {
	if len(holes) == 0 {
		return nil, nil
	}

	models := make([]holeTableModel, 0, len(holes))
	for _, hole := range holes {
		models = append(models, holeToModel(courseID, hole))
	}

	query, args, err := qb.InsertModels("course_holes", models, `ON CONFLICT (course_id, hole_index)
DO UPDATE SET
    name = EXCLUDED.name,
    image_urls = EXCLUDED.image_urls,
    updated_at = NOW()
RETURNING id, course_id, hole_index, name, image_urls`)
	if err != nil {
		return nil, fmt.Errorf("build upsert course holes query: %w", err)
	}

	var rows []holeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("upsert course holes course_id=%s count=%d: %w", courseID, len(holes), err)
	}

	out := make([]course.Hole, 0, len(rows))
	for _, row := range rows {
		out = append(out, holeFromRow(row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (r *LayoutRepository) DeleteHolesFrom(ctx context.Context, courseID string, fromIndex int) error {
	query, args, err := qb.DeleteFrom("course_holes").
		Where(qb.Eq("course_id", courseID), qb.Gte("hole_index", fromIndex)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete stale holes query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete stale holes course_id=%s from=%d: %w", courseID, fromIndex, err)
	}
	return nil
}

func (r *LayoutRepository) UpsertHoleTees(ctx context.Context, courseID string, items []course.HoleTee) error {
	db, ok := r.db.(*sqlx.DB)
	if !ok {
		// already inside a unit of work
		return upsertHoleTees(ctx, r.db, courseID, items)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert hole tees: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := upsertHoleTees(ctx, tx, courseID, items); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert hole tees tx: %w", err)
	}
	return nil
}

func upsertHoleTees(ctx context.Context, tx queryer, courseID string, items []course.HoleTee) error {
	keep := make([]string, 0, len(items))
	models := make([]holeTeeTableModel, 0, len(items))
	for _, item := range items {
		keep = append(keep, holeTeeKey(item.HoleID, item.TeeID))
		models = append(models, holeTeeTableModel{
			HoleID:      item.HoleID,
			TeeID:       item.TeeID,
			Distance:    item.Distance,
			StrokeIndex: item.StrokeIndex,
			Par:         item.Par,
		})
	}

	pruneQuery, pruneArgs, err := qb.DeleteFrom("course_hole_tees").
		Where(
			qb.Expr("hole_id IN (SELECT id FROM course_holes WHERE course_id = ?)", courseID),
			qb.Expr("NOT ((hole_id || ':' || tee_id) = ANY(?))", pq.Array(keep)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build prune hole tees query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, pruneQuery, pruneArgs...); err != nil {
		return fmt.Errorf("prune hole tees course_id=%s: %w", courseID, err)
	}

	if len(models) > 0 {
		query, args, err := qb.InsertModels("course_hole_tees", models, `ON CONFLICT (hole_id, tee_id)
DO UPDATE SET
    distance = EXCLUDED.distance,
    stroke_index = EXCLUDED.stroke_index,
    par = EXCLUDED.par,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert hole tees query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert hole tees course_id=%s count=%d: %w", courseID, len(models), err)
		}
	}
	return nil
}

func (r *LayoutRepository) ListTees(ctx context.Context, courseID string) ([]course.Tee, error) {
	query, args, err := qb.Select(qb.Columns(teeTableModel{})...).
		From("course_tees").
		Where(qb.Eq("course_id", courseID)).
		OrderBy("tee_index").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tees query: %w", err)
	}

	var rows []teeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tees course_id=%s: %w", courseID, err)
	}

	out := make([]course.Tee, 0, len(rows))
	for _, row := range rows {
		out = append(out, teeFromRow(row))
	}
	return out, nil
}

func (r *LayoutRepository) ListHoles(ctx context.Context, courseID string) ([]course.Hole, error) {
	query, args, err := qb.Select(qb.Columns(holeTableModel{})...).
		From("course_holes").
		Where(qb.Eq("course_id", courseID)).
		OrderBy("hole_index").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list holes query: %w", err)
	}

	var rows []holeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list holes course_id=%s: %w", courseID, err)
	}

	out := make([]course.Hole, 0, len(rows))
	for _, row := range rows {
		out = append(out, holeFromRow(row))
	}
	return out, nil
}

func (r *LayoutRepository) ListHoleTees(ctx context.Context, courseID string) ([]course.HoleTee, error) {
	query, args, err := qb.Select("ht.hole_id", "ht.tee_id", "ht.distance", "ht.stroke_index", "ht.par").
		From("course_hole_tees ht JOIN course_holes h ON h.id = ht.hole_id JOIN course_tees t ON t.id = ht.tee_id").
		Where(qb.Eq("h.course_id", courseID)).
		OrderBy("h.hole_index", "t.tee_index").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list hole tees query: %w", err)
	}

	var rows []holeTeeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list hole tees course_id=%s: %w", courseID, err)
	}

	out := make([]course.HoleTee, 0, len(rows))
	for _, row := range rows {
		out = append(out, course.HoleTee{
			HoleID:      row.HoleID,
			TeeID:       row.TeeID,
			Distance:    row.Distance,
			StrokeIndex: row.StrokeIndex,
			Par:         row.Par,
		})
	}
	return out, nil
}

func holeTeeKey(holeID, teeID string) string {
	return holeID + ":" + teeID
}
