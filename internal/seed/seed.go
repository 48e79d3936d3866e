// Package seed provisions the DuckDB database from a SQL script kept on disk
// or in the object store.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sqlask/sqlask/internal/storage"
)

// ErrNoScript is returned when neither a path nor an object key is given.
var ErrNoScript = errors.New("seed script path or object key is required")

type Options struct {
	ScriptPath   string
	ObjectKey    string
	SkipIfSeeded bool
}

type Result struct {
	Source  string
	Bytes   int
	Tables  int
	Skipped bool
}

// TableCounter reports how many user tables the target database holds.
type TableCounter interface {
	CountTables(ctx context.Context) (int, error)
}

type Seeder struct {
	db      *sql.DB
	tables  TableCounter
	scripts storage.ScriptStore
	logger  *slog.Logger
}

// NewSeeder builds a seeder. scripts may be nil when only local scripts are used.
func NewSeeder(db *sql.DB, tables TableCounter, scripts storage.ScriptStore, logger *slog.Logger) (*Seeder, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if tables == nil {
		return nil, fmt.Errorf("table counter is required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Seeder{db: db, tables: tables, scripts: scripts, logger: logger}, nil
}

func (s *Seeder) Run(ctx context.Context, opts Options) (Result, error) {
	if strings.TrimSpace(opts.ScriptPath) == "" && strings.TrimSpace(opts.ObjectKey) == "" {
		return Result{}, ErrNoScript
	}

	if opts.SkipIfSeeded {
		tables, err := s.tables.CountTables(ctx)
		if err != nil {
			return Result{}, err
		}
		if tables > 0 {
			s.logger.LogAttrs(ctx, slog.LevelInfo, "database already seeded", slog.Int("tables", tables))
			return Result{Tables: tables, Skipped: true}, nil
		}
	}

	source, script, err := s.loadScript(ctx, opts)
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(script) == "" {
		return Result{}, fmt.Errorf("seed script %s is empty", source)
	}

	start := time.Now()
	if _, err := s.db.ExecContext(ctx, script); err != nil {
		return Result{}, fmt.Errorf("execute seed script %s: %w", source, err)
	}
	tables, err := s.tables.CountTables(ctx)
	if err != nil {
		return Result{}, err
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "seed script applied",
		slog.String("source", source),
		slog.Int("bytes", len(script)),
		slog.Int("tables", tables),
		slog.Duration("duration", time.Since(start)),
	)
	return Result{Source: source, Bytes: len(script), Tables: tables}, nil
}

// Publish uploads a local script to the object store under key.
func (s *Seeder) Publish(ctx context.Context, scriptPath, key string) (storage.ObjectInfo, error) {
	if s.scripts == nil {
		return storage.ObjectInfo{}, fmt.Errorf("object store is not configured")
	}
	file, err := os.Open(scriptPath)
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("open seed script: %w", err)
	}
	defer func() { _ = file.Close() }()

	stat, err := file.Stat()
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("stat seed script: %w", err)
	}
	info, err := s.scripts.Put(ctx, key, file, stat.Size(), storage.ScriptContentType)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "seed script published",
		slog.String("path", scriptPath),
		slog.String("key", info.Key),
		slog.Int64("size", info.Size),
	)
	return info, nil
}

func (s *Seeder) loadScript(ctx context.Context, opts Options) (string, string, error) {
	if key := strings.TrimSpace(opts.ObjectKey); key != "" {
		if s.scripts == nil {
			return "", "", fmt.Errorf("object store is not configured for key %q", key)
		}
		reader, err := s.scripts.Get(ctx, key)
		if err != nil {
			return "", "", fmt.Errorf("load seed script: %w", err)
		}
		defer func() { _ = reader.Close() }()
		body, err := io.ReadAll(reader)
		if err != nil {
			return "", "", fmt.Errorf("read seed script %q: %w", key, err)
		}
		return "object:" + key, string(body), nil
	}

	body, err := os.ReadFile(opts.ScriptPath)
	if err != nil {
		return "", "", fmt.Errorf("read seed script: %w", err)
	}
	return "file:" + opts.ScriptPath, string(body), nil
}
