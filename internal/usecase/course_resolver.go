package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/golf-catalog/internal/domain/course"
	"github.com/riskibarqy/golf-catalog/internal/platform/id"
	"github.com/riskibarqy/golf-catalog/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type MatchKind string

const (
	MatchExternalID   MatchKind = "external_id"
	MatchNameLocation MatchKind = "name_location"
	MatchFingerprint  MatchKind = "fingerprint"
	MatchCreated      MatchKind = "created"
)

type ResolvedCourse struct {
	Course course.Course
	Match  MatchKind
}

// CourseResolver maps an upstream record onto exactly one local course. Lookups run in
// order external id, name-location key, fingerprint; a course is created only when all miss.
// Coordinates alone never match: name takes part in every key weaker than the external id.
type CourseResolver struct {
	courseRepo course.Repository
	idGen      id.Generator
	logger     *logging.Logger
}

func NewCourseResolver(courseRepo course.Repository, idGen id.Generator, logger *logging.Logger) *CourseResolver {
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CourseResolver{
		courseRepo: courseRepo,
		idGen:      idGen,
		logger:     logger,
	}
}

// Resolve finds or creates the course for record and persists the full overwrite, so the
// matched and created paths converge on the same stored state.
func (r *CourseResolver) Resolve(ctx context.Context, record ExternalCourse, syncedAt time.Time) (ResolvedCourse, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CourseResolver.Resolve")
	defer span.End()

	record = record.Sanitized()
	if record.ExternalID == "" || record.DisplayName == "" {
		return ResolvedCourse{}, fmt.Errorf("%w: external id and display name are required", ErrInvalidRecord)
	}

	incoming := record.toCourse(syncedAt)
	existing, match, found, err := r.find(ctx, incoming)
	if err != nil {
		return ResolvedCourse{}, err
	}
	span.SetAttributes(
		attribute.String("course.external_id", incoming.ExternalID),
		attribute.Bool("course.matched", found),
	)

	if !found {
		courseID, err := r.idGen.NewID()
		if err != nil {
			return ResolvedCourse{}, fmt.Errorf("generate course id: %w", err)
		}
		incoming.ID = courseID
		if err := incoming.Validate(); err != nil {
			return ResolvedCourse{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		if err := r.courseRepo.Create(ctx, incoming); err != nil {
			return ResolvedCourse{}, fmt.Errorf("create course external_id=%s: %w", incoming.ExternalID, err)
		}
		return ResolvedCourse{Course: incoming, Match: MatchCreated}, nil
	}

	incoming.ID = existing.ID
	incoming.CreatedAt = existing.CreatedAt
	if existing.ExternalID != incoming.ExternalID {
		r.logger.InfoContext(ctx, "course external id reassigned",
			"course_id", existing.ID,
			"previous_external_id", existing.ExternalID,
			"external_id", incoming.ExternalID,
			"match", string(match),
		)
	}
	if err := r.handOverKeys(ctx, incoming); err != nil {
		return ResolvedCourse{}, err
	}
	if err := r.courseRepo.Update(ctx, incoming); err != nil {
		return ResolvedCourse{}, fmt.Errorf("update course id=%s external_id=%s: %w", incoming.ID, incoming.ExternalID, err)
	}

	return ResolvedCourse{Course: incoming, Match: match}, nil
}

func (r *CourseResolver) find(ctx context.Context, incoming course.Course) (course.Course, MatchKind, bool, error) {
	item, found, err := r.courseRepo.GetByExternalID(ctx, incoming.ExternalID)
	if err != nil {
		return course.Course{}, "", false, fmt.Errorf("get course by external id=%s: %w", incoming.ExternalID, err)
	}
	if found {
		return item, MatchExternalID, true, nil
	}

	item, found, err = r.courseRepo.GetByNameLocationKey(ctx, incoming.NameLocationKey)
	if err != nil {
		return course.Course{}, "", false, fmt.Errorf("get course by name location key: %w", err)
	}
	if found {
		return item, MatchNameLocation, true, nil
	}

	item, found, err = r.courseRepo.GetByFingerprint(ctx, incoming.Fingerprint)
	if err != nil {
		return course.Course{}, "", false, fmt.Errorf("get course by fingerprint=%s: %w", incoming.Fingerprint, err)
	}
	if found {
		return item, MatchFingerprint, true, nil
	}

	return course.Course{}, "", false, nil
}

// handOverKeys releases match keys held by a different course than the one being updated,
// otherwise the latest record would fail on the unique constraint on every pass.
func (r *CourseResolver) handOverKeys(ctx context.Context, incoming course.Course) error {
	released := make(map[string]struct{}, 2)
	lookups := []struct {
		name string
		key  string
		get  func(context.Context, string) (course.Course, bool, error)
	}{
		{name: "name_location_key", key: incoming.NameLocationKey, get: r.courseRepo.GetByNameLocationKey},
		{name: "fingerprint", key: incoming.Fingerprint, get: r.courseRepo.GetByFingerprint},
	}

	for _, lookup := range lookups {
		if strings.TrimSpace(lookup.key) == "" {
			continue
		}
		holder, found, err := lookup.get(ctx, lookup.key)
		if err != nil {
			return fmt.Errorf("get course by %s: %w", lookup.name, err)
		}
		if !found || holder.ID == incoming.ID {
			continue
		}
		if _, done := released[holder.ID]; done {
			continue
		}

		r.logger.WarnContext(ctx, "releasing match keys held by another course",
			"key", lookup.name,
			"holder_course_id", holder.ID,
			"holder_external_id", holder.ExternalID,
			"course_id", incoming.ID,
			"external_id", incoming.ExternalID,
		)
		if err := r.courseRepo.ReleaseMatchKeys(ctx, holder.ID); err != nil {
			return fmt.Errorf("release match keys course_id=%s: %w", holder.ID, err)
		}
		released[holder.ID] = struct{}{}
	}
	return nil
}
