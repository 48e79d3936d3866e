// Package nl2sql answers natural-language questions about the database in
// two model calls: one to write SQL, one to phrase its result.
package nl2sql

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sqlask/sqlask/internal/completion"
	"github.com/sqlask/sqlask/internal/observability"
	"github.com/sqlask/sqlask/internal/query"
	"github.com/sqlask/sqlask/internal/schema"
)

type Answer struct {
	SQLQuery string
	Answer   string
}

// Pipeline is safe for concurrent use; it keeps no per-question state.
type Pipeline struct {
	generator   *SQLGenerator
	synthesizer *AnswerSynthesizer
	logger      *slog.Logger
}

func NewPipeline(schemas schema.Provider, executor query.Executor, completer completion.Provider, logger *slog.Logger) (*Pipeline, error) {
	generator, err := NewSQLGenerator(schemas, completer)
	if err != nil {
		return nil, fmt.Errorf("sql generator: %w", err)
	}
	synthesizer, err := NewAnswerSynthesizer(schemas, executor, completer)
	if err != nil {
		return nil, fmt.Errorf("answer synthesizer: %w", err)
	}
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	return &Pipeline{generator: generator, synthesizer: synthesizer, logger: logger}, nil
}

// AnswerQuestion generates SQL for question, runs it and returns the answer.
// Errors from either stage are returned unchanged and no partial answer is produced.
func (p *Pipeline) AnswerQuestion(ctx context.Context, question string) (Answer, error) {
	start := time.Now()

	sqlQuery, err := p.generator.GenerateSQL(ctx, question)
	if err != nil {
		return Answer{}, p.fail(ctx, err, start)
	}
	p.logger.LogAttrs(ctx, slog.LevelDebug, "sql generated",
		observability.TraceAttr(ctx),
		slog.String("sql", sqlQuery),
	)

	answer, err := p.synthesizer.SynthesizeAnswer(ctx, question, sqlQuery)
	if err != nil {
		return Answer{}, p.fail(ctx, err, start)
	}

	observability.ObservePipelineResult("")
	p.logger.LogAttrs(ctx, slog.LevelDebug, "question answered",
		observability.TraceAttr(ctx),
		slog.Duration("duration", time.Since(start)),
	)
	return Answer{SQLQuery: sqlQuery, Answer: completion.Text(answer)}, nil
}

func (p *Pipeline) fail(ctx context.Context, err error, start time.Time) error {
	kind := Kind(err)
	observability.ObservePipelineResult(kind)
	p.logger.LogAttrs(ctx, slog.LevelWarn, "question failed",
		observability.TraceAttr(ctx),
		slog.String("error_kind", kind),
		slog.Duration("duration", time.Since(start)),
		slog.String("error", err.Error()),
	)
	return err
}
