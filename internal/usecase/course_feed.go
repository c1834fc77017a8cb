package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/golf-catalog/internal/domain/course"
)

// CourseFeed is the upstream course-data provider.
type CourseFeed interface {
	FetchCourseList(ctx context.Context, skip, take int) ([]ExternalCourse, error)
}

// ExternalCourse is one raw record from the upstream feed. Validation tags describe the
// structural checks a record must pass before it is reconciled.
type ExternalCourse struct {
	ExternalID    string `validate:"required"`
	RefDBID       string
	CreatedAt     *time.Time
	Description   string
	DisplayName   string                 `validate:"required"`
	HoleCount     *int                   `validate:"omitempty,gte=0"`
	WorldLocation *ExternalWorldLocation `validate:"omitempty"`
	Location      string
	Tags          []string
	Holes         []ExternalHole `validate:"dive"`
	Difficulty    *float64
	Tees          []ExternalTee `validate:"dive"`
	ImageURL      string
	VideoURL      string
	// DecodeErr is set by the feed when the raw item did not match the expected shape.
	// Only the identifying fields are populated then.
	DecodeErr     error
}

type ExternalWorldLocation struct {
	GoogleMapURL string
	Latitude     *float64 `validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64 `validate:"omitempty,gte=-180,lte=180"`
}

type ExternalHole struct {
	Name      string
	Tees      []ExternalHoleTee `validate:"dive"`
	ImageURLs []string
}

type ExternalHoleTee struct {
	Distance    *float64 `validate:"omitempty,gte=0"`
	StrokeIndex *int     `validate:"omitempty,gte=0"`
	Par         *int     `validate:"omitempty,gte=0"`
}

type ExternalTee struct {
	Par            *int     `validate:"omitempty,gte=0"`
	CourseDistance *float64 `validate:"omitempty,gte=0"`
	CourseRating   *float64 `validate:"omitempty,gte=0"`
	Slope          *float64 `validate:"omitempty,gte=0"`
	Gender         string
	Kind           string
	Name           string
}

// Sanitized returns a copy with identifier and free-text fields trimmed and empty tags
// and image URLs dropped.
func (r ExternalCourse) Sanitized() ExternalCourse {
	out := r
	out.ExternalID = strings.TrimSpace(r.ExternalID)
	out.RefDBID = strings.TrimSpace(r.RefDBID)
	out.DisplayName = strings.TrimSpace(r.DisplayName)
	out.Location = strings.TrimSpace(r.Location)
	out.Description = strings.TrimSpace(r.Description)
	out.ImageURL = strings.TrimSpace(r.ImageURL)
	out.VideoURL = strings.TrimSpace(r.VideoURL)
	out.Tags = compactStrings(r.Tags)
	if len(r.Holes) > 0 {
		out.Holes = make([]ExternalHole, len(r.Holes))
		for i, hole := range r.Holes {
			hole.Name = strings.TrimSpace(hole.Name)
			hole.ImageURLs = compactStrings(hole.ImageURLs)
			out.Holes[i] = hole
		}
	}
	return out
}

func (r ExternalCourse) latitude() *float64 {
	if r.WorldLocation == nil {
		return nil
	}
	return r.WorldLocation.Latitude
}

func (r ExternalCourse) longitude() *float64 {
	if r.WorldLocation == nil {
		return nil
	}
	return r.WorldLocation.Longitude
}

// NameLocationKey and Fingerprint derive the match keys of the record.
func (r ExternalCourse) NameLocationKey() string {
	return course.NameLocationKey(r.DisplayName, r.Location)
}

func (r ExternalCourse) Fingerprint() string {
	return course.Fingerprint(r.DisplayName, r.Location, r.latitude(), r.longitude(), r.HoleCount)
}

// toCourse maps every attribute the catalog keeps, including both match keys.
func (r ExternalCourse) toCourse(syncedAt time.Time) course.Course {
	c := course.Course{
		ExternalID:      r.ExternalID,
		RefDBID:         r.RefDBID,
		SourceCreatedAt: r.CreatedAt,
		Description:     r.Description,
		DisplayName:     r.DisplayName,
		HoleCount:       r.HoleCount,
		Location:        r.Location,
		Latitude:        r.latitude(),
		Longitude:       r.longitude(),
		Difficulty:      r.Difficulty,
		Tags:            append([]string{}, r.Tags...),
		ImageURL:        r.ImageURL,
		VideoURL:        r.VideoURL,
		SyncedAt:        syncedAt,
	}
	if r.WorldLocation != nil {
		c.GoogleMapURL = strings.TrimSpace(r.WorldLocation.GoogleMapURL)
	}
	c.DeriveKeys()
	return c
}

func compactStrings(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
