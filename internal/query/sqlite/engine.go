package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sqlask/sqlask/internal/query"
)

type Engine struct {
	db      *sql.DB
	maxRows int
}

// NewEngine returns an executor over db. maxRows <= 0 disables the row cap.
func NewEngine(db *sql.DB, maxRows int) *Engine {
	return &Engine{db: db, maxRows: maxRows}
}

func (e *Engine) Execute(ctx context.Context, sqlText string) (query.Result, error) {
	if e.db == nil {
		return query.Result{}, fmt.Errorf("database is required")
	}

	start := time.Now()
	rows, err := e.db.QueryContext(ctx, sqlText)
	if err != nil {
		return query.Result{}, fmt.Errorf("execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result, err := query.Collect(rows, e.maxRows, nil)
	if err != nil {
		return query.Result{}, err
	}
	result.Duration = time.Since(start)
	return result, nil
}
