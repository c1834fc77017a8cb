package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/golf-catalog/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/golf-catalog/internal/platform/logging"
)

type sequenceIDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next), nil
}

type memoryCatalog struct {
	courses *memory.CourseRepository
	layout  *memory.LayoutRepository
	runs    *memory.SyncRunRepository
	leases  *memory.SyncLeaseRepository
}

func newMemoryCatalog() *memoryCatalog {
	layout := memory.NewLayoutRepository()
	return &memoryCatalog{
		courses: memory.NewCourseRepository(layout),
		layout:  layout,
		runs:    memory.NewSyncRunRepository(),
		leases:  memory.NewSyncLeaseRepository(),
	}
}

type staticFeed struct {
	mu      sync.Mutex
	records []ExternalCourse
	err     error
	calls   int
}

func (f *staticFeed) FetchCourseList(_ context.Context, _, _ int) ([]ExternalCourse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]ExternalCourse(nil), f.records...), nil
}

type recordingReporter struct {
	mu       sync.Mutex
	progress []Progress
	failures []RecordFailure
}

func (r *recordingReporter) ReportProgress(_ context.Context, p Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, p)
}

func (r *recordingReporter) ReportRecordFailure(_ context.Context, f RecordFailure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, f)
}

func testLogger() *logging.Logger {
	return logging.NewNop()
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func pineValley(externalID string) ExternalCourse {
	return ExternalCourse{
		ExternalID:  externalID,
		DisplayName: "Pine Valley",
		Location:    "NJ",
		HoleCount:   intPtr(18),
		WorldLocation: &ExternalWorldLocation{
			Latitude:  floatPtr(39.787),
			Longitude: floatPtr(-74.977),
		},
		Tees: []ExternalTee{
			{Name: "Championship", Par: intPtr(70), CourseDistance: floatPtr(7181)},
			{Name: "Member", Par: intPtr(70), CourseDistance: floatPtr(6765)},
		},
		Holes: []ExternalHole{
			{Name: "1", Tees: []ExternalHoleTee{{Distance: floatPtr(421), Par: intPtr(4)}, {Distance: floatPtr(402), Par: intPtr(4)}}},
			{Name: "2", Tees: []ExternalHoleTee{{Distance: floatPtr(367), Par: intPtr(4)}, {Distance: floatPtr(350), Par: intPtr(4)}}},
		},
	}
}
