package nl2sql

import (
	"context"
	"errors"
	"sync"

	"github.com/sqlask/sqlask/internal/completion"
	"github.com/sqlask/sqlask/internal/query"
)

type fakeSchema struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
}

func (f *fakeSchema) DescribeSchema(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeExecutor struct {
	mu      sync.Mutex
	result  query.Result
	err     error
	queries []string
}

func (f *fakeExecutor) Execute(_ context.Context, sqlText string) (query.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, sqlText)
	if f.err != nil {
		return query.Result{}, f.err
	}
	return f.result, nil
}

type completionCall struct {
	prompt string
	opts   completion.Options
}

// fakeCompleter returns responses in order and fails once they run out.
type fakeCompleter struct {
	mu        sync.Mutex
	responses []completion.Completion
	errs      []error
	calls     []completionCall
}

func (f *fakeCompleter) Name() string { return "fake" }

func (f *fakeCompleter) Complete(_ context.Context, prompt string, opts completion.Options) (completion.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	index := len(f.calls)
	f.calls = append(f.calls, completionCall{prompt: prompt, opts: opts})
	if index < len(f.errs) && f.errs[index] != nil {
		return nil, f.errs[index]
	}
	if index >= len(f.responses) {
		return nil, errors.New("unexpected completion call")
	}
	return f.responses[index], nil
}
