package completion

import (
	"strings"
	"testing"
)

func TestTextPlain(t *testing.T) {
	if got := Text(PlainText("SELECT 1")); got != "SELECT 1" {
		t.Fatalf("Text() = %q", got)
	}
	plain := PlainText("  spaced  ")
	if got := Text(&plain); got != "  spaced  " {
		t.Fatalf("Text(&plain) = %q", got)
	}
}

func TestTextWrappedUsesContentField(t *testing.T) {
	c := Wrap(map[string]any{"role": "assistant", "content": "There are 275 artists."})
	if got := Text(c); got != "There are 275 artists." {
		t.Fatalf("Text() = %q", got)
	}
	if got := Text(&c); got != "There are 275 artists." {
		t.Fatalf("Text(&wrapped) = %q", got)
	}
}

func TestTextWrappedFallsBackToRawPayload(t *testing.T) {
	c := Wrap(map[string]any{"role": "assistant", "content": []any{map[string]any{"type": "text"}}})
	got := Text(c)
	if !strings.Contains(got, `"role":"assistant"`) || !strings.Contains(got, `"type":"text"`) {
		t.Fatalf("Text() = %q, want raw JSON payload", got)
	}
}

func TestTextEmptyValues(t *testing.T) {
	if got := Text(nil); got != "" {
		t.Fatalf("Text(nil) = %q", got)
	}
	if got := Text(WrappedText{}); got != "" {
		t.Fatalf("Text(empty wrapped) = %q", got)
	}
	var nilPlain *PlainText
	if got := Text(nilPlain); got != "" {
		t.Fatalf("Text(nil *PlainText) = %q", got)
	}
	if got := Text(PlainText("")); got != "" {
		t.Fatalf("Text(empty plain) = %q", got)
	}
}
