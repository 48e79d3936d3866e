package schema

import (
	"context"
	"fmt"
	"strings"
)

// maxSampleValueLength caps a single sample cell so wide text columns do not
// dominate the prompt.
const maxSampleValueLength = 100

type Provider interface {
	DescribeSchema(ctx context.Context) (string, error)
}

type Table struct {
	Name            string
	CreateStatement string
	Columns         []string
	SampleRows      [][]string
	// SampleLimit is the number of rows requested, printed in the sample header.
	SampleLimit int
}

// Render produces the prompt-facing description of the given tables, in order.
func Render(tables []Table) string {
	blocks := make([]string, 0, len(tables))
	for _, table := range tables {
		blocks = append(blocks, renderTable(table))
	}
	return strings.Join(blocks, "\n\n")
}

func renderTable(table Table) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(table.CreateStatement))
	if table.SampleLimit <= 0 {
		return b.String()
	}

	fmt.Fprintf(&b, "\n\n/*\n%d rows from %s table:\n", table.SampleLimit, table.Name)
	b.WriteString(strings.Join(table.Columns, "\t"))
	for _, row := range table.SampleRows {
		b.WriteString("\n")
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = truncate(cell)
		}
		b.WriteString(strings.Join(cells, "\t"))
	}
	b.WriteString("\n*/")
	return b.String()
}

func truncate(value string) string {
	if len(value) <= maxSampleValueLength {
		return value
	}
	return value[:maxSampleValueLength]
}
