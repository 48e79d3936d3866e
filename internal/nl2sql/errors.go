package nl2sql

import (
	"errors"
	"fmt"
)

const (
	StageGenerateSQL      = "generate_sql"
	StageSynthesizeAnswer = "synthesize_answer"
)

const (
	KindConnection     = "connection"
	KindQueryExecution = "query_execution"
	KindCompletion     = "completion"
	KindUnknown        = "unknown"
)

// ErrMalformedOutput names unusable model output. The pipeline does not
// validate generated SQL, so nonsense surfaces as a QueryExecutionError instead.
var ErrMalformedOutput = errors.New("malformed model output")

// ConnectionError reports that the schema could not be read.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("describe schema: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryExecutionError reports that the generated SQL failed to run.
type QueryExecutionError struct {
	Query string
	Err   error
}

func (e *QueryExecutionError) Error() string {
	return fmt.Sprintf("execute generated query %q: %v", e.Query, e.Err)
}

func (e *QueryExecutionError) Unwrap() error { return e.Err }

// CompletionError reports a failed model call in the named stage.
type CompletionError struct {
	Stage string
	Err   error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("%s completion: %v", e.Stage, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// Kind maps err to a stable label. nil maps to "".
func Kind(err error) string {
	if err == nil {
		return ""
	}
	var (
		connErr       *ConnectionError
		queryErr      *QueryExecutionError
		completionErr *CompletionError
	)
	switch {
	case errors.As(err, &connErr):
		return KindConnection
	case errors.As(err, &queryErr):
		return KindQueryExecution
	case errors.As(err, &completionErr):
		return KindCompletion
	default:
		return KindUnknown
	}
}
