package api

import (
	"log/slog"
	"net/http"

	"github.com/sqlask/sqlask/internal/observability"
)

func handleSchema(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Schema == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "SCHEMA_NOT_CONFIGURED", "schema provider is not configured", false, nil)
		return
	}

	description, err := deps.Schema.DescribeSchema(r.Context())
	if err != nil {
		if deps.Logger != nil {
			deps.Logger.LogAttrs(r.Context(), slog.LevelWarn, "describe schema failed",
				observability.TraceAttr(r.Context()),
				slog.String("error", err.Error()),
			)
		}
		writeError(r.Context(), w, http.StatusServiceUnavailable, codeDatabaseDown, "failed to load schema", true, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"schema": description})
}
