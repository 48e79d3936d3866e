package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sqlask/sqlask/internal/audit"
	"github.com/sqlask/sqlask/internal/auth"
	"github.com/sqlask/sqlask/internal/nl2sql"
	"github.com/sqlask/sqlask/internal/observability"
)

// FallbackMessage replaces internal error detail in every failed ask response.
const FallbackMessage = "Sorry, I could not answer that question."

const (
	maxAskBodyBytes     = 1 << 20
	auditRecordTimeout  = 2 * time.Second
	codeAskTimeout      = "ASK_TIMEOUT"
	codeAskFailed       = "ASK_FAILED"
	codeDatabaseDown    = "DATABASE_UNAVAILABLE"
	codeQueryFailed     = "QUERY_EXECUTION_FAILED"
	codeCompletionError = "COMPLETION_FAILED"
)

type askRequest struct {
	Question string `json:"question"`
}

type generateRequest struct {
	QueryDescription string `json:"queryDescription"`
}

func handleAsk(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !decodeBody(w, r, &req) {
		return
	}
	answer, ok := answerQuestion(deps, w, r, req.Question)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sql_query": answer.SQLQuery,
		"answer":    answer.Answer,
	})
}

// handleGenerate serves the browser form contract. "response" mirrors
// "answer" for clients that read that field.
func handleGenerate(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	answer, ok := answerQuestion(deps, w, r, req.QueryDescription)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sqlQuery": answer.SQLQuery,
		"answer":   answer.Answer,
		"response": answer.Answer,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAskBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid request body", false, map[string]any{"details": err.Error()})
		return false
	}
	return true
}

// answerQuestion runs the pipeline under the ask timeout, records the
// outcome and writes the error response on failure.
func answerQuestion(deps Dependencies, w http.ResponseWriter, r *http.Request, question string) (nl2sql.Answer, bool) {
	if deps.Asker == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "ASK_NOT_CONFIGURED", "question answering is not configured", false, nil)
		return nl2sql.Answer{}, false
	}

	ctx := r.Context()
	if deps.AskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deps.AskTimeout)
		defer cancel()
	}

	start := time.Now()
	answer, err := deps.Asker.AnswerQuestion(ctx, question)
	elapsed := time.Since(start)
	recordAudit(deps, r, question, answer, err, elapsed)

	if err != nil {
		status, code, retryable := classifyAskError(err)
		if deps.Logger != nil {
			deps.Logger.LogAttrs(r.Context(), slog.LevelWarn, "ask failed",
				observability.TraceAttr(r.Context()),
				slog.String("error_code", code),
				slog.String("error_kind", nl2sql.Kind(err)),
				slog.Duration("duration", elapsed),
				slog.String("error", err.Error()),
			)
		}
		writeError(r.Context(), w, status, code, FallbackMessage, retryable, nil)
		return nl2sql.Answer{}, false
	}
	return answer, true
}

func classifyAskError(err error) (int, string, bool) {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, codeAskTimeout, true
	}
	switch nl2sql.Kind(err) {
	case nl2sql.KindConnection:
		return http.StatusServiceUnavailable, codeDatabaseDown, true
	case nl2sql.KindQueryExecution:
		return http.StatusUnprocessableEntity, codeQueryFailed, false
	case nl2sql.KindCompletion:
		return http.StatusBadGateway, codeCompletionError, true
	default:
		return http.StatusInternalServerError, codeAskFailed, false
	}
}

func recordAudit(deps Dependencies, r *http.Request, question string, answer nl2sql.Answer, askErr error, elapsed time.Duration) {
	if deps.AuditRecorder == nil {
		return
	}

	entry := audit.Entry{
		TraceID:  observability.TraceIDFromContext(r.Context()),
		Question: question,
		SQLQuery: answer.SQLQuery,
		Outcome:  audit.OutcomeOK,
		Duration: elapsed,
	}
	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		entry.Subject = identity.Subject
	}
	if askErr != nil {
		entry.Outcome = audit.OutcomeError
		entry.ErrorKind = nl2sql.Kind(askErr)
		var queryErr *nl2sql.QueryExecutionError
		if errors.As(askErr, &queryErr) {
			entry.SQLQuery = queryErr.Query
		}
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), auditRecordTimeout)
	defer cancel()
	if _, err := deps.AuditRecorder.Record(ctx, entry); err != nil && deps.Logger != nil {
		deps.Logger.LogAttrs(r.Context(), slog.LevelError, "audit record failed",
			observability.TraceAttr(r.Context()),
			slog.String("error", err.Error()),
		)
	}
}
