package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sqlask/sqlask/internal/audit"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type Repository struct {
	db    *sql.DB
	newID func() string
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, newID: func() string { return uuid.NewString() }}
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping audit db: %w", err)
	}
	return nil
}

// Record inserts entry, assigning an ID when it has none.
func (r *Repository) Record(ctx context.Context, entry audit.Entry) (audit.Entry, error) {
	if entry.AuditID == "" {
		entry.AuditID = r.newID()
	}
	if entry.Outcome == "" {
		entry.Outcome = audit.OutcomeOK
	}

	query := `
INSERT INTO ask_audit (audit_id, trace_id, subject, question, sql_query, outcome, error_kind, duration_ms)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING asked_at`
	var askedAt time.Time
	if err := r.db.QueryRowContext(ctx, query,
		entry.AuditID,
		entry.TraceID,
		entry.Subject,
		entry.Question,
		entry.SQLQuery,
		entry.Outcome,
		entry.ErrorKind,
		entry.Duration.Milliseconds(),
	).Scan(&askedAt); err != nil {
		return audit.Entry{}, fmt.Errorf("record ask audit: %w", err)
	}
	entry.AskedAt = askedAt
	return entry, nil
}

// ListRecent returns the newest entries first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]audit.Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	query := `
SELECT audit_id, trace_id, subject, question, sql_query, outcome, error_kind, duration_ms, asked_at
FROM ask_audit
ORDER BY asked_at DESC
LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list ask audit: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]audit.Entry, 0)
	for rows.Next() {
		var (
			entry      audit.Entry
			durationMS int64
		)
		if err := rows.Scan(
			&entry.AuditID,
			&entry.TraceID,
			&entry.Subject,
			&entry.Question,
			&entry.SQLQuery,
			&entry.Outcome,
			&entry.ErrorKind,
			&durationMS,
			&entry.AskedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ask audit: %w", err)
		}
		entry.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ask audit: %w", err)
	}
	return entries, nil
}
