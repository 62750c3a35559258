package endpoints

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/idm-admin/pkg/config"
	"github.com/doodlesbykumbi/idm-admin/pkg/pagination"
	"github.com/doodlesbykumbi/idm-admin/pkg/server"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

// RegisterLogsEndpoint registers the paged log viewer
func RegisterLogsEndpoint(s *server.Server) {
	logsRouter := s.Router.PathPrefix("/logs").Subrouter()
	logsRouter.Use(s.AdminAuth.Middleware)

	// GET /logs?pageNumber=N
	logsRouter.HandleFunc("", handleLogs(s.LogsStore, s.Config, s.Logger)).Methods("GET")
}

func handleLogs(ls store.LogsStore, cfg *config.IDMConfig, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := ls.FetchLogs(r.Context(), cfg.LogFetchLimit)
		if err != nil {
			logger.Error("failed to fetch logs", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to fetch logs")
			return
		}

		page := pagination.New(entries, pagination.ParsePage(r.URL.Query().Get("pageNumber")), cfg.PageSize)
		respondWithJSON(w, http.StatusOK, page)
	}
}
