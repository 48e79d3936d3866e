package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sqlask/sqlask/internal/query"
	"github.com/sqlask/sqlask/internal/schema"
)

const listTablesSQL = `
SELECT table_name, sql
FROM duckdb_tables()
WHERE NOT internal AND schema_name = 'main'
ORDER BY table_name`

const countTablesSQL = `SELECT count(*) FROM duckdb_tables() WHERE NOT internal AND schema_name = 'main'`

type SchemaProvider struct {
	db         *sql.DB
	sampleRows int
}

// NewSchemaProvider describes the main schema of db, including up to
// sampleRows rows per table. sampleRows <= 0 omits samples.
func NewSchemaProvider(db *sql.DB, sampleRows int) *SchemaProvider {
	return &SchemaProvider{db: db, sampleRows: sampleRows}
}

func (p *SchemaProvider) DescribeSchema(ctx context.Context) (string, error) {
	if p.db == nil {
		return "", fmt.Errorf("database is required")
	}

	tables, err := p.listTables(ctx)
	if err != nil {
		return "", err
	}
	if p.sampleRows > 0 {
		for i := range tables {
			if err := p.loadSamples(ctx, &tables[i]); err != nil {
				return "", err
			}
		}
	}
	return schema.Render(tables), nil
}

// CountTables reports how many user tables the main schema holds.
func (p *SchemaProvider) CountTables(ctx context.Context) (int, error) {
	if p.db == nil {
		return 0, fmt.Errorf("database is required")
	}
	var count int
	if err := p.db.QueryRowContext(ctx, countTablesSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tables: %w", err)
	}
	return count, nil
}

func (p *SchemaProvider) listTables(ctx context.Context) ([]schema.Table, error) {
	rows, err := p.db.QueryContext(ctx, listTablesSQL)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tables := make([]schema.Table, 0)
	for rows.Next() {
		var (
			name      string
			statement sql.NullString
		)
		if err := rows.Scan(&name, &statement); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, schema.Table{Name: name, CreateStatement: statement.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}
	return tables, nil
}

func (p *SchemaProvider) loadSamples(ctx context.Context, table *schema.Table) error {
	sampleSQL := fmt.Sprintf(`SELECT * FROM %s LIMIT %d`, quoteIdent(table.Name), p.sampleRows)
	rows, err := p.db.QueryContext(ctx, sampleSQL)
	if err != nil {
		return fmt.Errorf("sample table %q: %w", table.Name, err)
	}
	defer func() { _ = rows.Close() }()

	sample, err := query.Collect(rows, 0, normalizeValue)
	if err != nil {
		return fmt.Errorf("sample table %q: %w", table.Name, err)
	}

	table.Columns = sample.Columns
	table.SampleLimit = p.sampleRows
	for _, row := range sample.Rows {
		table.SampleRows = append(table.SampleRows, query.FormatCells(row))
	}
	return nil
}

func quoteIdent(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
