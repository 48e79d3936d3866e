package nl2sql

import (
	"context"
	"fmt"
	"time"

	"github.com/sqlask/sqlask/internal/completion"
	"github.com/sqlask/sqlask/internal/observability"
	"github.com/sqlask/sqlask/internal/query"
	"github.com/sqlask/sqlask/internal/schema"
)

type AnswerSynthesizer struct {
	schemas   schema.Provider
	executor  query.Executor
	completer completion.Provider
}

func NewAnswerSynthesizer(schemas schema.Provider, executor query.Executor, completer completion.Provider) (*AnswerSynthesizer, error) {
	if schemas == nil {
		return nil, fmt.Errorf("schema provider is required")
	}
	if executor == nil {
		return nil, fmt.Errorf("query executor is required")
	}
	if completer == nil {
		return nil, fmt.Errorf("completion provider is required")
	}
	return &AnswerSynthesizer{schemas: schemas, executor: executor, completer: completer}, nil
}

// SynthesizeAnswer fetches the schema again, runs sqlQuery and asks the model
// to phrase the result. The model is not called when execution fails.
func (s *AnswerSynthesizer) SynthesizeAnswer(ctx context.Context, question, sqlQuery string) (answer completion.Completion, err error) {
	start := time.Now()
	defer func() { observability.ObserveStage(StageSynthesizeAnswer, err, time.Since(start)) }()

	schemaText, err := s.schemas.DescribeSchema(ctx)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	result, err := s.executor.Execute(ctx, sqlQuery)
	if err != nil {
		return nil, &QueryExecutionError{Query: sqlQuery, Err: err}
	}
	observability.ObserveQueryRows(len(result.Rows))

	answer, err = complete(ctx, s.completer, renderAnswerPrompt(schemaText, question, sqlQuery, result.Text()), completion.Options{})
	if err != nil {
		return nil, &CompletionError{Stage: StageSynthesizeAnswer, Err: err}
	}
	return answer, nil
}
