package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/golf-catalog/internal/domain/syncrun"
	"github.com/riskibarqy/golf-catalog/internal/usecase"
)

// TriggerSync acknowledges the trigger as soon as the pass is handed off. The pass
// outcome is only observable through the run endpoints and logs.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerSync")
	defer span.End()

	if h.syncRunner == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync runner is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	run, err := h.syncRunner.Trigger(ctx, syncrun.TriggerHTTP)
	if err != nil {
		h.logger.WarnContext(ctx, "trigger course sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "course sync accepted", "run_id", run.ID)
	writeSuccess(ctx, w, http.StatusAccepted, triggerSyncResponse{
		Message: "Course sync started",
		Run:     syncRunToDTO(run),
	})
}

func (h *Handler) ListSyncRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSyncRuns")
	defer span.End()

	if h.syncRunner == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync runner is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	runs, err := h.syncRunner.ListRuns(ctx, parseLimit(r.URL.Query().Get("limit")))
	if err != nil {
		h.logger.ErrorContext(ctx, "list sync runs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]syncRunDTO, 0, len(runs))
	for _, run := range runs {
		items = append(items, syncRunToDTO(run))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetSyncRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSyncRun")
	defer span.End()

	if h.syncRunner == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync runner is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	runID := r.PathValue("runID")
	run, err := h.syncRunner.GetRun(ctx, runID)
	if err != nil {
		h.logger.WarnContext(ctx, "get sync run failed", "run_id", runID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncRunToDTO(run))
}

func (h *Handler) GetOrphanReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOrphanReport")
	defer span.End()

	if h.orphanService == nil {
		writeError(ctx, w, fmt.Errorf("%w: orphan report is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	report, err := h.orphanService.Report(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "orphan report failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, orphanReportToDTO(report))
}
