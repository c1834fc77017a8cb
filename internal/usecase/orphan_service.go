package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/golf-catalog/internal/domain/course"
	"github.com/riskibarqy/golf-catalog/internal/platform/cache"
	"github.com/riskibarqy/golf-catalog/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const orphanFeedKeysCacheKey = "orphans:feed-keys"

type OrphanReport struct {
	FeedCount   int              `json:"feed_count"`
	UniqueKeys  int              `json:"unique_keys"`
	StoredCount int              `json:"stored_count"`
	Orphans     []course.Summary `json:"orphans"`
}

type feedKeySet struct {
	count int
	keys  map[string]struct{}
}

// OrphanService finds stored courses that no longer appear in the upstream feed.
// Deletion is manual and never part of a sync pass.
type OrphanService struct {
	feed       CourseFeed
	courseRepo course.Repository
	cache      *cache.Store
	pageSize   int
	logger     *logging.Logger
}

func NewOrphanService(feed CourseFeed, courseRepo course.Repository, store *cache.Store, pageSize int, logger *logging.Logger) *OrphanService {
	if logger == nil {
		logger = logging.Default()
	}
	if pageSize <= 0 {
		pageSize = 8000
	}
	return &OrphanService{
		feed:       feed,
		courseRepo: courseRepo,
		cache:      store,
		pageSize:   pageSize,
		logger:     logger,
	}
}

func (s *OrphanService) Report(ctx context.Context) (OrphanReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OrphanService.Report")
	defer span.End()

	feedKeys, err := cache.GetOrLoadTyped(ctx, s.cache, orphanFeedKeysCacheKey, s.loadFeedKeys)
	if err != nil {
		return OrphanReport{}, err
	}

	stored, err := s.courseRepo.ListSummaries(ctx)
	if err != nil {
		return OrphanReport{}, fmt.Errorf("list course summaries: %w", err)
	}

	orphans := make([]course.Summary, 0)
	for _, item := range stored {
		// Recomputed so rows whose stored key was released still compare by their current name.
		key := course.NameLocationKey(item.DisplayName, item.Location)
		if _, ok := feedKeys.keys[key]; ok {
			continue
		}
		orphans = append(orphans, item)
	}
	span.SetAttributes(attribute.Int("orphans.count", len(orphans)))

	return OrphanReport{
		FeedCount:   feedKeys.count,
		UniqueKeys:  len(feedKeys.keys),
		StoredCount: len(stored),
		Orphans:     orphans,
	}, nil
}

func (s *OrphanService) loadFeedKeys(ctx context.Context) (feedKeySet, error) {
	records, err := s.feed.FetchCourseList(ctx, 0, s.pageSize)
	if err != nil {
		return feedKeySet{}, fmt.Errorf("%w: fetch course list: %w", ErrDependencyUnavailable, err)
	}
	keys := make(map[string]struct{}, len(records))
	for _, record := range records {
		record = record.Sanitized()
		if record.DisplayName == "" {
			continue
		}
		keys[record.NameLocationKey()] = struct{}{}
	}
	return feedKeySet{count: len(records), keys: keys}, nil
}

// Delete removes the given courses and their layout. It returns how many rows were deleted.
func (s *OrphanService) Delete(ctx context.Context, ids []string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OrphanService.Delete")
	defer span.End()

	cleaned := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, courseID := range ids {
		courseID = strings.TrimSpace(courseID)
		if courseID == "" {
			continue
		}
		if _, ok := seen[courseID]; ok {
			continue
		}
		seen[courseID] = struct{}{}
		cleaned = append(cleaned, courseID)
	}
	if len(cleaned) == 0 {
		return 0, fmt.Errorf("%w: at least one course id is required", ErrInvalidInput)
	}

	deleted, err := s.courseRepo.DeleteByIDs(ctx, cleaned)
	if err != nil {
		return 0, fmt.Errorf("delete orphan courses: %w", err)
	}
	s.logger.WarnContext(ctx, "orphan courses deleted", "requested", len(cleaned), "deleted", deleted)
	return deleted, nil
}
