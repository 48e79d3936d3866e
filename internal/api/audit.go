package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

type auditEntryResponse struct {
	AuditID    string    `json:"audit_id"`
	TraceID    string    `json:"trace_id"`
	Subject    string    `json:"subject"`
	Question   string    `json:"question"`
	SQLQuery   string    `json:"sql_query"`
	Outcome    string    `json:"outcome"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	AskedAt    time.Time `json:"asked_at"`
}

func handleListAudit(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.AuditReader == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "AUDIT_NOT_CONFIGURED", "audit store is not configured", false, nil)
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(r.Context(), w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer", false, nil)
			return
		}
		limit = parsed
	}

	entries, err := deps.AuditReader.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "AUDIT_LIST_FAILED", "failed to list audit entries", true, map[string]any{"details": err.Error()})
		return
	}

	items := make([]auditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, auditEntryResponse{
			AuditID:    entry.AuditID,
			TraceID:    entry.TraceID,
			Subject:    entry.Subject,
			Question:   entry.Question,
			SQLQuery:   entry.SQLQuery,
			Outcome:    entry.Outcome,
			ErrorKind:  entry.ErrorKind,
			DurationMS: entry.Duration.Milliseconds(),
			AskedAt:    entry.AskedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": items})
}
