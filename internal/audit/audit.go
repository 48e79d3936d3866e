// Package audit records one entry per question asked over HTTP.
package audit

import (
	"context"
	"time"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

type Entry struct {
	AuditID   string
	TraceID   string
	Subject   string
	Question  string
	SQLQuery  string
	Outcome   string
	ErrorKind string
	Duration  time.Duration
	AskedAt   time.Time
}

type Recorder interface {
	Record(ctx context.Context, entry Entry) (Entry, error)
}

type Reader interface {
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}

// Store is a Recorder that can also list what it recorded.
type Store interface {
	Recorder
	Reader
	HealthCheck(ctx context.Context) error
}
