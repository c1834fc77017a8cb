package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/golf-catalog/internal/usecase"
)

// RunCourseSyncJob executes a run queued by the trigger endpoint. A pass that ends in a
// terminal state answers 200 so the queue does not redeliver it; the run carries the outcome.
func (h *Handler) RunCourseSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunCourseSyncJob")
	defer span.End()

	if h.syncRunner == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync runner is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeCourseSyncJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validator.StructCtx(ctx, req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	run, err := h.syncRunner.Execute(ctx, req.RunID)
	if err != nil && !run.Status.Terminal() {
		h.logger.WarnContext(ctx, "run course sync job failed", "run_id", req.RunID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if err != nil {
		h.logger.WarnContext(ctx, "course sync job finished with failure", "run_id", req.RunID, "status", string(run.Status), "error", err)
	}

	writeSuccess(ctx, w, http.StatusOK, syncRunToDTO(run))
}

func decodeCourseSyncJobRequest(r *http.Request) (usecase.CourseSyncJobPayload, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req usecase.CourseSyncJobPayload
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return usecase.CourseSyncJobPayload{}, fmt.Errorf("%w: run_id is required", usecase.ErrInvalidInput)
		}
		return usecase.CourseSyncJobPayload{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
