package nl2sql

import (
	"context"
	"fmt"
	"time"

	"github.com/sqlask/sqlask/internal/completion"
	"github.com/sqlask/sqlask/internal/observability"
	"github.com/sqlask/sqlask/internal/schema"
)

type SQLGenerator struct {
	schemas   schema.Provider
	completer completion.Provider
}

func NewSQLGenerator(schemas schema.Provider, completer completion.Provider) (*SQLGenerator, error) {
	if schemas == nil {
		return nil, fmt.Errorf("schema provider is required")
	}
	if completer == nil {
		return nil, fmt.Errorf("completion provider is required")
	}
	return &SQLGenerator{schemas: schemas, completer: completer}, nil
}

// GenerateSQL returns the model's SQL for question verbatim. An empty
// completion is returned as an empty string.
func (g *SQLGenerator) GenerateSQL(ctx context.Context, question string) (sqlText string, err error) {
	start := time.Now()
	defer func() { observability.ObserveStage(StageGenerateSQL, err, time.Since(start)) }()

	schemaText, err := g.schemas.DescribeSchema(ctx)
	if err != nil {
		return "", &ConnectionError{Err: err}
	}

	result, err := complete(ctx, g.completer, renderSQLPrompt(schemaText, question), completion.Options{
		StopSequences: []string{SQLResultMarker},
	})
	if err != nil {
		return "", &CompletionError{Stage: StageGenerateSQL, Err: err}
	}
	return completion.Text(result), nil
}

func complete(ctx context.Context, provider completion.Provider, prompt string, opts completion.Options) (completion.Completion, error) {
	result, err := provider.Complete(ctx, prompt, opts)
	observability.ObserveCompletion(provider.Name(), err)
	return result, err
}
