package postgres

import (
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/golf-catalog/internal/domain/course"
)

type courseTableModel struct {
	ID              string         `db:"id"`
	ExternalID      string         `db:"external_id"`
	RefDBID         *string        `db:"ref_db_id"`
	SourceCreatedAt *time.Time     `db:"source_created_at"`
	Description     *string        `db:"description"`
	DisplayName     string         `db:"display_name"`
	HoleCount       *int           `db:"hole_count"`
	Location        *string        `db:"course_location"`
	Latitude        *float64       `db:"latitude"`
	Longitude       *float64       `db:"longitude"`
	GoogleMapURL    *string        `db:"google_map_url"`
	Difficulty      *float64       `db:"difficulty"`
	Tags            pq.StringArray `db:"tags"`
	ImageURL        *string        `db:"image_url"`
	VideoURL        *string        `db:"video_url"`
	Fingerprint     *string        `db:"fingerprint"`
	NameLocationKey *string        `db:"name_location_key"`
	SyncedAt        time.Time      `db:"synced_at"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

type courseInsertModel struct {
	ID              string         `db:"id"`
	ExternalID      string         `db:"external_id"`
	RefDBID         *string        `db:"ref_db_id"`
	SourceCreatedAt *time.Time     `db:"source_created_at"`
	Description     *string        `db:"description"`
	DisplayName     string         `db:"display_name"`
	HoleCount       *int           `db:"hole_count"`
	Location        *string        `db:"course_location"`
	Latitude        *float64       `db:"latitude"`
	Longitude       *float64       `db:"longitude"`
	GoogleMapURL    *string        `db:"google_map_url"`
	Difficulty      *float64       `db:"difficulty"`
	Tags            pq.StringArray `db:"tags"`
	ImageURL        *string        `db:"image_url"`
	VideoURL        *string        `db:"video_url"`
	Fingerprint     *string        `db:"fingerprint"`
	NameLocationKey *string        `db:"name_location_key"`
	SyncedAt        time.Time      `db:"synced_at"`
}

type courseSummaryTableModel struct {
	ID              string    `db:"id"`
	ExternalID      string    `db:"external_id"`
	DisplayName     string    `db:"display_name"`
	Location        *string   `db:"course_location"`
	NameLocationKey *string   `db:"name_location_key"`
	SyncedAt        time.Time `db:"synced_at"`
}

type teeTableModel struct {
	ID           string   `db:"id"`
	CourseID     string   `db:"course_id"`
	Index        int      `db:"tee_index"`
	Name         *string  `db:"name"`
	Gender       *string  `db:"gender"`
	Kind         *string  `db:"kind"`
	Par          *int     `db:"par"`
	Distance     *float64 `db:"course_distance"`
	CourseRating *float64 `db:"course_rating"`
	Slope        *float64 `db:"slope"`
}

type holeTableModel struct {
	ID        string         `db:"id"`
	CourseID  string         `db:"course_id"`
	Index     int            `db:"hole_index"`
	Name      *string        `db:"name"`
	ImageURLs pq.StringArray `db:"image_urls"`
}

type holeTeeTableModel struct {
	HoleID      string   `db:"hole_id"`
	TeeID       string   `db:"tee_id"`
	Distance    *float64 `db:"distance"`
	StrokeIndex *int     `db:"stroke_index"`
	Par         *int     `db:"par"`
}

func courseToInsertModel(c course.Course) courseInsertModel {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return courseInsertModel{
		ID:              c.ID,
		ExternalID:      c.ExternalID,
		RefDBID:         optionalString(c.RefDBID),
		SourceCreatedAt: c.SourceCreatedAt,
		Description:     optionalString(c.Description),
		DisplayName:     c.DisplayName,
		HoleCount:       c.HoleCount,
		Location:        optionalString(c.Location),
		Latitude:        c.Latitude,
		Longitude:       c.Longitude,
		GoogleMapURL:    optionalString(c.GoogleMapURL),
		Difficulty:      c.Difficulty,
		Tags:            pq.StringArray(tags),
		ImageURL:        optionalString(c.ImageURL),
		VideoURL:        optionalString(c.VideoURL),
		Fingerprint:     optionalString(c.Fingerprint),
		NameLocationKey: optionalString(c.NameLocationKey),
		SyncedAt:        c.SyncedAt.UTC(),
	}
}

func courseFromRow(row courseTableModel) course.Course {
	return course.Course{
		ID:              row.ID,
		ExternalID:      row.ExternalID,
		RefDBID:         stringValue(row.RefDBID),
		SourceCreatedAt: row.SourceCreatedAt,
		Description:     stringValue(row.Description),
		DisplayName:     row.DisplayName,
		HoleCount:       row.HoleCount,
		Location:        stringValue(row.Location),
		Latitude:        row.Latitude,
		Longitude:       row.Longitude,
		GoogleMapURL:    stringValue(row.GoogleMapURL),
		Difficulty:      row.Difficulty,
		Tags:            append([]string(nil), row.Tags...),
		ImageURL:        stringValue(row.ImageURL),
		VideoURL:        stringValue(row.VideoURL),
		Fingerprint:     stringValue(row.Fingerprint),
		NameLocationKey: stringValue(row.NameLocationKey),
		SyncedAt:        row.SyncedAt,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func teeToModel(courseID string, t course.Tee) teeTableModel {
	return teeTableModel{
		ID:           t.ID,
		CourseID:     courseID,
		Index:        t.Index,
		Name:         optionalString(t.Name),
		Gender:       optionalString(t.Gender),
		Kind:         optionalString(t.Kind),
		Par:          t.Par,
		Distance:     t.Distance,
		CourseRating: t.CourseRating,
		Slope:        t.Slope,
	}
}

func teeFromRow(row teeTableModel) course.Tee {
	return course.Tee{
		ID:           row.ID,
		CourseID:     row.CourseID,
		Index:        row.Index,
		Name:         stringValue(row.Name),
		Gender:       stringValue(row.Gender),
		Kind:         stringValue(row.Kind),
		Par:          row.Par,
		Distance:     row.Distance,
		CourseRating: row.CourseRating,
		Slope:        row.Slope,
	}
}

func holeToModel(courseID string, h course.Hole) holeTableModel {
	images := h.ImageURLs
	if images == nil {
		images = []string{}
	}
	return holeTableModel{
		ID:        h.ID,
		CourseID:  courseID,
		Index:     h.Index,
		Name:      optionalString(h.Name),
		ImageURLs: pq.StringArray(images),
	}
}

func holeFromRow(row holeTableModel) course.Hole {
	return course.Hole{
		ID:        row.ID,
		CourseID:  row.CourseID,
		Index:     row.Index,
		Name:      stringValue(row.Name),
		ImageURLs: append([]string(nil), row.ImageURLs...),
	}
}
