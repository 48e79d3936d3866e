package query

import (
	"database/sql"
	"fmt"
)

// Collect drains rows into a Result. maxRows <= 0 reads everything; otherwise
// Truncated is set when more rows were available. normalize may be nil.
func Collect(rows *sql.Rows, maxRows int, normalize func(any) any) (Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return Result{}, fmt.Errorf("query columns: %w", err)
	}

	result := Result{Columns: columns, Rows: make([][]any, 0)}
	for rows.Next() {
		if maxRows > 0 && len(result.Rows) >= maxRows {
			result.Truncated = true
			break
		}
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return Result{}, fmt.Errorf("scan row: %w", err)
		}
		for i, value := range values {
			if b, ok := value.([]byte); ok {
				value = string(b)
			}
			if normalize != nil {
				value = normalize(value)
			}
			values[i] = value
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return Result{}, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}

// FormatCells renders one row for a schema sample block. NULL stays visible.
func FormatCells(values []any) []string {
	formatted := make([]string, len(values))
	for i, value := range values {
		if value == nil {
			formatted[i] = "NULL"
			continue
		}
		formatted[i] = fmt.Sprint(value)
	}
	return formatted
}
