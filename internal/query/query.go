package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Result struct {
	Columns []string
	Rows    [][]any
	// Truncated reports that the row cap was reached and Rows is a prefix of the full result.
	Truncated bool
	Duration  time.Duration
}

type Executor interface {
	Execute(ctx context.Context, sql string) (Result, error)
}

// Text renders the result as a JSON array of row objects keyed by column
// name, preserving column order.
func (r Result) Text() string {
	if len(r.Rows) == 0 {
		return "[]"
	}

	var b strings.Builder
	b.WriteString("[")
	for i, row := range r.Rows {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("{")
		for j, value := range row {
			if j > 0 {
				b.WriteString(",")
			}
			b.WriteString(encodeValue(columnName(r.Columns, j)))
			b.WriteString(":")
			b.WriteString(encodeValue(value))
		}
		b.WriteString("}")
	}
	b.WriteString("]")
	return b.String()
}

func columnName(columns []string, index int) string {
	if index < len(columns) {
		return columns[index]
	}
	return fmt.Sprintf("column%d", index)
}

func encodeValue(value any) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		encoded, _ = json.Marshal(fmt.Sprint(value))
	}
	return string(encoded)
}
