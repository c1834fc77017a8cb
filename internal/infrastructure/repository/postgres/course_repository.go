package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/golf-catalog/internal/domain/course"
	qb "github.com/riskibarqy/golf-catalog/internal/platform/querybuilder"
)

type CourseRepository struct {
	db queryer
}

func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) GetByExternalID(ctx context.Context, externalID string) (course.Course, bool, error) {
	return r.getByColumn(ctx, "external_id", externalID)
}

func (r *CourseRepository) GetByNameLocationKey(ctx context.Context, key string) (course.Course, bool, error) {
	return r.getByColumn(ctx, "name_location_key", key)
}

func (r *CourseRepository) GetByFingerprint(ctx context.Context, fingerprint string) (course.Course, bool, error) {
	return r.getByColumn(ctx, "fingerprint", fingerprint)
}

func (r *CourseRepository) getByColumn(ctx context.Context, column, value string) (course.Course, bool, error) {
	if value == "" {
		return course.Course{}, false, nil
	}

	query, args, err := courseBaseSelectBuilder().
		Where(qb.Eq(column, value)).
		ToSQL()
	if err != nil {
		return course.Course{}, false, fmt.Errorf("build get course by %s query: %w", column, err)
	}

	var row courseTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
			return r.getByColumnLiteral(ctx, column, value)
		}
		if isNotFound(err) {
			return course.Course{}, false, nil
		}
		return course.Course{}, false, fmt.Errorf("get course by %s: %w", column, err)
	}

	return courseFromRow(row), true, nil
}

func (r *CourseRepository) getByColumnLiteral(ctx context.Context, column, value string) (course.Course, bool, error) {
	query, args, err := courseBaseSelectBuilder().
		Where(qb.EqLiteral(column, value)).
		ToSQL()
	if err != nil {
		return course.Course{}, false, fmt.Errorf("build get course by %s literal fallback query: %w", column, err)
	}

	var row courseTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return course.Course{}, false, nil
		}
		return course.Course{}, false, fmt.Errorf("get course by %s literal fallback: %w", column, err)
	}

	return courseFromRow(row), true, nil
}

func (r *CourseRepository) Create(ctx context.Context, c course.Course) error {
	query, args, err := qb.InsertModel("courses", courseToInsertModel(c), "")
	if err != nil {
		return fmt.Errorf("build insert course query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return wrapCourseWriteError(fmt.Sprintf("insert course id=%s external_id=%s", c.ID, c.ExternalID), err)
	}
	return nil
}

func (r *CourseRepository) Update(ctx context.Context, c course.Course) error {
	model := courseToInsertModel(c)
	query, args, err := qb.Update("courses").
		Set("external_id", model.ExternalID).
		Set("ref_db_id", model.RefDBID).
		Set("source_created_at", model.SourceCreatedAt).
		Set("description", model.Description).
		Set("display_name", model.DisplayName).
		Set("hole_count", model.HoleCount).
		Set("course_location", model.Location).
		Set("latitude", model.Latitude).
		Set("longitude", model.Longitude).
		Set("google_map_url", model.GoogleMapURL).
		Set("difficulty", model.Difficulty).
		Set("tags", model.Tags).
		Set("image_url", model.ImageURL).
		Set("video_url", model.VideoURL).
		Set("fingerprint", model.Fingerprint).
		Set("name_location_key", model.NameLocationKey).
		Set("synced_at", model.SyncedAt).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", c.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update course query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapCourseWriteError(fmt.Sprintf("update course id=%s external_id=%s", c.ID, c.ExternalID), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read update course rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update course id=%s: no row updated", c.ID)
	}
	return nil
}

func (r *CourseRepository) ReleaseMatchKeys(ctx context.Context, courseID string) error {
	query, args, err := qb.Update("courses").
		SetExpr("fingerprint", "NULL").
		SetExpr("name_location_key", "NULL").
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", courseID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build release course keys query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("release course keys id=%s: %w", courseID, err)
	}
	return nil
}

func (r *CourseRepository) Count(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("courses").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count courses query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count courses: %w", err)
	}
	return count, nil
}

func (r *CourseRepository) ListSummaries(ctx context.Context) ([]course.Summary, error) {
	query, args, err := qb.Select("id", "external_id", "display_name", "course_location", "name_location_key", "synced_at").
		From("courses").
		OrderBy("display_name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list course summaries query: %w", err)
	}

	var rows []courseSummaryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list course summaries: %w", err)
	}

	out := make([]course.Summary, 0, len(rows))
	for _, row := range rows {
		out = append(out, course.Summary{
			ID:              row.ID,
			ExternalID:      row.ExternalID,
			DisplayName:     row.DisplayName,
			Location:        stringValue(row.Location),
			NameLocationKey: stringValue(row.NameLocationKey),
			SyncedAt:        row.SyncedAt,
		})
	}
	return out, nil
}

func (r *CourseRepository) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := qb.DeleteFrom("courses").
		Where(qb.In("id", stringSliceToAny(ids))).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete courses query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete courses count=%d: %w", len(ids), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read delete courses rows affected: %w", err)
	}
	return int(affected), nil
}

func courseBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(qb.Columns(courseTableModel{})...).From("courses")
}
