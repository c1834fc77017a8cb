package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/golf-catalog/internal/domain/course"
	"github.com/riskibarqy/golf-catalog/internal/domain/syncrun"
	"github.com/riskibarqy/golf-catalog/internal/platform/logging"
	"github.com/riskibarqy/golf-catalog/internal/usecase"
)

type Handler struct {
	syncRunner    *usecase.SyncRunner
	orphanService *usecase.OrphanService
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(
	syncRunner *usecase.SyncRunner,
	orphanService *usecase.OrphanService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		syncRunner:    syncRunner,
		orphanService: orphanService,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type syncRunDTO struct {
	ID         string     `json:"id"`
	Trigger    string     `json:"trigger"`
	Status     string     `json:"status"`
	Total      int        `json:"total"`
	Processed  int        `json:"processed"`
	Created    int        `json:"created"`
	Updated    int        `json:"updated"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
	ElapsedMs  int64      `json:"elapsed_ms"`
	LastError  string     `json:"last_error,omitempty"`
	QueuedAt   time.Time  `json:"queued_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	TraceID    string     `json:"trace_id,omitempty"`
}

type triggerSyncResponse struct {
	Message string     `json:"message"`
	Run     syncRunDTO `json:"run"`
}

type orphanCourseDTO struct {
	ID              string    `json:"id"`
	ExternalID      string    `json:"external_id"`
	DisplayName     string    `json:"display_name"`
	Location        string    `json:"location,omitempty"`
	NameLocationKey string    `json:"name_location_key"`
	SyncedAt        time.Time `json:"synced_at"`
}

type orphanReportDTO struct {
	FeedCount   int               `json:"feed_count"`
	UniqueKeys  int               `json:"unique_keys"`
	StoredCount int               `json:"stored_count"`
	OrphanCount int               `json:"orphan_count"`
	Orphans     []orphanCourseDTO `json:"orphans"`
}

func syncRunToDTO(run syncrun.Run) syncRunDTO {
	return syncRunDTO{
		ID:         run.ID,
		Trigger:    string(run.Trigger),
		Status:     string(run.Status),
		Total:      run.Total,
		Processed:  run.Processed,
		Created:    run.Created,
		Updated:    run.Updated,
		Skipped:    run.Skipped,
		Failed:     run.Failed,
		ElapsedMs:  run.ElapsedMs,
		LastError:  run.LastError,
		QueuedAt:   run.QueuedAt,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		TraceID:    run.TraceID,
	}
}

func orphanReportToDTO(report usecase.OrphanReport) orphanReportDTO {
	items := make([]orphanCourseDTO, 0, len(report.Orphans))
	for _, item := range report.Orphans {
		items = append(items, orphanCourseToDTO(item))
	}
	return orphanReportDTO{
		FeedCount:   report.FeedCount,
		UniqueKeys:  report.UniqueKeys,
		StoredCount: report.StoredCount,
		OrphanCount: len(items),
		Orphans:     items,
	}
}

func orphanCourseToDTO(item course.Summary) orphanCourseDTO {
	return orphanCourseDTO{
		ID:              item.ID,
		ExternalID:      item.ExternalID,
		DisplayName:     item.DisplayName,
		Location:        item.Location,
		NameLocationKey: item.NameLocationKey,
		SyncedAt:        item.SyncedAt,
	}
}

func parseLimit(raw string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return limit
}
