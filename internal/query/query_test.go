package query

import (
	"math"
	"testing"
)

func TestResultTextPreservesColumnOrder(t *testing.T) {
	result := Result{
		Columns: []string{"name", "id"},
		Rows:    [][]any{{"AC/DC", int64(1)}, {"Accept", int64(2)}},
	}
	want := `[{"name":"AC/DC","id":1},{"name":"Accept","id":2}]`
	if got := result.Text(); got != want {
		t.Fatalf("Text() = %s, want %s", got, want)
	}
}

func TestResultTextEmpty(t *testing.T) {
	if got := (Result{Columns: []string{"c"}}).Text(); got != "[]" {
		t.Fatalf("Text() = %s", got)
	}
}

func TestResultTextHandlesNullAndUnencodableValues(t *testing.T) {
	result := Result{
		Columns: []string{"a", "b"},
		Rows:    [][]any{{nil, math.Inf(1)}},
	}
	want := `[{"a":null,"b":"+Inf"}]`
	if got := result.Text(); got != want {
		t.Fatalf("Text() = %s, want %s", got, want)
	}
}

func TestResultTextNamesMissingColumns(t *testing.T) {
	result := Result{Rows: [][]any{{true}}}
	if got := result.Text(); got != `[{"column0":true}]` {
		t.Fatalf("Text() = %s", got)
	}
}
