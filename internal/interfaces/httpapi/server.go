package httpapi

import (
	"net/http"

	"github.com/pbarzyk/matchboard/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger, internalJobToken string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerPublicRoutes(mux, handler)
	registerInternalJobRoutes(mux, handler, internalJobToken)

	return RequestTracing(RequestLogging(logger, recoverPanic(logger, mux)))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/standings", handler.GetStandings)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/cups", handler.GetCupIndex)
	mux.HandleFunc("GET /v1/competitions/rules", handler.GetClassificationRules)
	mux.HandleFunc("GET /v1/clubs", handler.ListClubs)
	mux.HandleFunc("GET /v1/clubs/{name}", handler.GetClub)
	mux.HandleFunc("GET /v1/clubs/{name}/form", handler.GetClubForm)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync-day", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncDayJob)))
	mux.Handle("POST /v1/internal/jobs/sync-window", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncWindowJob)))
	mux.Handle("POST /v1/internal/jobs/rebuild-aggregates", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRebuildAggregatesJob)))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "panic recovered", "panic", rec)
				writeInternalError(r.Context(), w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
