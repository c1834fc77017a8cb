package course

import (
	"fmt"
	"strings"
	"time"
)

// Course is a golf course as known to the local catalog.
type Course struct {
	ID              string
	ExternalID      string
	RefDBID         string
	SourceCreatedAt *time.Time
	Description     string
	DisplayName     string
	HoleCount       *int
	Location        string
	Latitude        *float64
	Longitude       *float64
	GoogleMapURL    string
	Difficulty      *float64
	Tags            []string
	ImageURL        string
	VideoURL        string
	// Fingerprint and NameLocationKey are unique when non-empty.
	Fingerprint     string
	NameLocationKey string
	SyncedAt        time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (c Course) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("course id is required")
	}
	if strings.TrimSpace(c.ExternalID) == "" {
		return fmt.Errorf("course external id is required")
	}
	if strings.TrimSpace(c.DisplayName) == "" {
		return fmt.Errorf("course display name is required")
	}
	return nil
}

// Tee is a rated starting position set, keyed by (CourseID, Index).
type Tee struct {
	ID           string
	CourseID     string
	Index        int
	Name         string
	Gender       string
	Kind         string
	Par          *int
	Distance     *float64
	CourseRating *float64
	Slope        *float64
}

// Hole is keyed by (CourseID, Index).
type Hole struct {
	ID        string
	CourseID  string
	Index     int
	Name      string
	ImageURLs []string
}

// HoleTee holds the per-hole, per-tee measurements, keyed by (HoleID, TeeID).
type HoleTee struct {
	HoleID      string
	TeeID       string
	Distance    *float64
	StrokeIndex *int
	Par         *int
}

// Summary is the slim projection used by the orphan report.
type Summary struct {
	ID              string
	ExternalID      string
	DisplayName     string
	Location        string
	NameLocationKey string
	SyncedAt        time.Time
}
