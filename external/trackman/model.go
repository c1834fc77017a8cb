package trackman

import (
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/golf-catalog/internal/usecase"
)

const coursesListQuery = `query getCoursesList($skip: Int, $take: Int) {
  courses(skip: $skip, take: $take) {
    items {
      id
      dbId
      createdAt
      description
      displayName
      numbersOfHoles
      worldLocation { googleMapUrl latitude longitude }
      courseLocation
      tags
      holes {
        name
        tees { distance strokeIndex par }
        images { url }
      }
      difficulty
      tees { par courseDistance courseRating slope gender kind name }
      image { url }
      video { url }
    }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type coursesListResponse struct {
	Data *struct {
		Courses *struct {
			Items []sonic.NoCopyRawMessage `json:"items"`
		} `json:"courses"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type mediaRef struct {
	URL *string `json:"url"`
}

type worldLocation struct {
	GoogleMapURL *string  `json:"googleMapUrl"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

type holeTeeItem struct {
	Distance    *float64 `json:"distance"`
	StrokeIndex *int     `json:"strokeIndex"`
	Par         *int     `json:"par"`
}

type holeItem struct {
	Name   *string       `json:"name"`
	Tees   []holeTeeItem `json:"tees"`
	Images []mediaRef    `json:"images"`
}

type teeItem struct {
	Par            *int     `json:"par"`
	CourseDistance *float64 `json:"courseDistance"`
	CourseRating   *float64 `json:"courseRating"`
	Slope          *float64 `json:"slope"`
	Gender         *string  `json:"gender"`
	Kind           *string  `json:"kind"`
	Name           *string  `json:"name"`
}

type courseItem struct {
	ID             string         `json:"id"`
	DBID           *string        `json:"dbId"`
	CreatedAt      *string        `json:"createdAt"`
	Description    *string        `json:"description"`
	DisplayName    *string        `json:"displayName"`
	NumbersOfHoles *int           `json:"numbersOfHoles"`
	WorldLocation  *worldLocation `json:"worldLocation"`
	CourseLocation *string        `json:"courseLocation"`
	Tags           []string       `json:"tags"`
	Holes          []holeItem     `json:"holes"`
	Difficulty     *float64       `json:"difficulty"`
	Tees           []teeItem      `json:"tees"`
	Image          *mediaRef      `json:"image"`
	Video          *mediaRef      `json:"video"`
}

// courseIdentity holds the fields used to name and key an item whose full shape did not decode.
type courseIdentity struct {
	ID             string  `json:"id"`
	DisplayName    *string `json:"displayName"`
	CourseLocation *string `json:"courseLocation"`
}

// decodeCourseItem decodes one feed item. An item that does not match the expected shape is
// returned with DecodeErr set so the pass can skip it and keep going.
func decodeCourseItem(index int, raw []byte) usecase.ExternalCourse {
	var item courseItem
	err := sonic.Unmarshal(raw, &item)
	if err == nil {
		return item.toExternal()
	}

	var identity courseIdentity
	_ = sonic.Unmarshal(raw, &identity)
	return usecase.ExternalCourse{
		ExternalID:  strings.TrimSpace(identity.ID),
		DisplayName: deref(identity.DisplayName),
		Location:    deref(identity.CourseLocation),
		DecodeErr:   fmt.Errorf("decode course item %d: %w", index, err),
	}
}

func (item courseItem) toExternal() usecase.ExternalCourse {
	out := usecase.ExternalCourse{
		ExternalID:  item.ID,
		RefDBID:     deref(item.DBID),
		CreatedAt:   parseTimestamp(deref(item.CreatedAt)),
		Description: deref(item.Description),
		DisplayName: deref(item.DisplayName),
		HoleCount:   item.NumbersOfHoles,
		Location:    deref(item.CourseLocation),
		Tags:        append([]string(nil), item.Tags...),
		Difficulty:  item.Difficulty,
	}
	if item.WorldLocation != nil {
		out.WorldLocation = &usecase.ExternalWorldLocation{
			GoogleMapURL: deref(item.WorldLocation.GoogleMapURL),
			Latitude:     item.WorldLocation.Latitude,
			Longitude:    item.WorldLocation.Longitude,
		}
	}
	if item.Image != nil {
		out.ImageURL = deref(item.Image.URL)
	}
	if item.Video != nil {
		out.VideoURL = deref(item.Video.URL)
	}

	if len(item.Holes) > 0 {
		out.Holes = make([]usecase.ExternalHole, 0, len(item.Holes))
		for _, hole := range item.Holes {
			mapped := usecase.ExternalHole{Name: deref(hole.Name)}
			for _, tee := range hole.Tees {
				mapped.Tees = append(mapped.Tees, usecase.ExternalHoleTee{
					Distance:    tee.Distance,
					StrokeIndex: tee.StrokeIndex,
					Par:         tee.Par,
				})
			}
			for _, image := range hole.Images {
				if url := deref(image.URL); url != "" {
					mapped.ImageURLs = append(mapped.ImageURLs, url)
				}
			}
			out.Holes = append(out.Holes, mapped)
		}
	}

	if len(item.Tees) > 0 {
		out.Tees = make([]usecase.ExternalTee, 0, len(item.Tees))
		for _, tee := range item.Tees {
			out.Tees = append(out.Tees, usecase.ExternalTee{
				Par:            tee.Par,
				CourseDistance: tee.CourseDistance,
				CourseRating:   tee.CourseRating,
				Slope:          tee.Slope,
				Gender:         deref(tee.Gender),
				Kind:           deref(tee.Kind),
				Name:           deref(tee.Name),
			})
		}
	}
	return out
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func parseTimestamp(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	return nil
}
