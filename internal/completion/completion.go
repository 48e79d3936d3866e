// Package completion defines the text-completion capability consumed by the
// question answering pipeline and the result type returned by its backends.
package completion

import (
	"context"
	"encoding/json"
	"fmt"
)

// PayloadField is the field of a WrappedText that carries the generated text.
const PayloadField = "content"

type Options struct {
	// StopSequences truncates generation at the first occurrence of any entry.
	StopSequences []string
}

type Provider interface {
	Complete(ctx context.Context, prompt string, opts Options) (Completion, error)
	Name() string
}

// Completion is either PlainText or WrappedText.
type Completion interface {
	isCompletion()
}

type PlainText string

func (PlainText) isCompletion() {}

// WrappedText is a structured model response, e.g. a chat message object.
type WrappedText struct {
	Payload map[string]any
}

func (WrappedText) isCompletion() {}

func Wrap(payload map[string]any) WrappedText {
	return WrappedText{Payload: payload}
}

// Text extracts the textual payload of c. A WrappedText without a string
// content field falls back to the JSON encoding of its raw payload.
func Text(c Completion) string {
	switch typed := c.(type) {
	case nil:
		return ""
	case PlainText:
		return string(typed)
	case *PlainText:
		if typed == nil {
			return ""
		}
		return string(*typed)
	case WrappedText:
		return typed.text()
	case *WrappedText:
		if typed == nil {
			return ""
		}
		return typed.text()
	default:
		return fmt.Sprint(c)
	}
}

func (w WrappedText) text() string {
	if content, ok := w.Payload[PayloadField].(string); ok {
		return content
	}
	if len(w.Payload) == 0 {
		return ""
	}
	raw, err := json.Marshal(w.Payload)
	if err != nil {
		return fmt.Sprint(w.Payload)
	}
	return string(raw)
}
