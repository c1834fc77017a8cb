package httpapi

import (
	"net/http"

	"github.com/riskibarqy/golf-catalog/internal/platform/logging"
	"github.com/riskibarqy/golf-catalog/internal/usecase"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

// registerSyncRoutes guards every operator endpoint with the shared cron secret.
func registerSyncRoutes(mux *http.ServeMux, handler *Handler, cronSecret string, logger *logging.Logger) {
	mux.Handle("POST /api/sync", RequireCronSecret(cronSecret, logger, http.HandlerFunc(handler.TriggerSync)))
	mux.Handle("GET /api/sync/runs", RequireCronSecret(cronSecret, logger, http.HandlerFunc(handler.ListSyncRuns)))
	mux.Handle("GET /api/sync/runs/{runID}", RequireCronSecret(cronSecret, logger, http.HandlerFunc(handler.GetSyncRun)))
	mux.Handle("GET /api/sync/orphans", RequireCronSecret(cronSecret, logger, http.HandlerFunc(handler.GetOrphanReport)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST "+usecase.CourseSyncJobPath, RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunCourseSyncJob)))
}
