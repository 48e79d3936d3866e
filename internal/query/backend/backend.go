// Package backend opens the configured analytical database and wires its
// schema provider and executor.
package backend

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sqlask/sqlask/internal/config"
	"github.com/sqlask/sqlask/internal/query"
	"github.com/sqlask/sqlask/internal/query/duckdb"
	"github.com/sqlask/sqlask/internal/query/sqlite"
	"github.com/sqlask/sqlask/internal/schema"
)

type SchemaProvider interface {
	schema.Provider
	CountTables(ctx context.Context) (int, error)
}

type Database struct {
	Driver   string
	DB       *sql.DB
	Schema   SchemaProvider
	Executor query.Executor
}

func Open(ctx context.Context, cfg config.DatabaseConfig, sampleRows, maxRows int) (*Database, error) {
	switch cfg.Driver {
	case config.DriverDuckDB, "":
		db, err := duckdb.Open(ctx, duckdb.DBConfig{
			Path:            cfg.Path,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxIdleTime: cfg.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		return &Database{
			Driver:   config.DriverDuckDB,
			DB:       db,
			Schema:   duckdb.NewSchemaProvider(db, sampleRows),
			Executor: duckdb.NewEngine(db, maxRows),
		}, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, sqlite.DBConfig{
			Path:            cfg.Path,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxIdleTime: cfg.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		return &Database{
			Driver:   config.DriverSQLite,
			DB:       db,
			Schema:   sqlite.NewSchemaProvider(db, sampleRows),
			Executor: sqlite.NewEngine(db, maxRows),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func (d *Database) Close() error {
	return d.DB.Close()
}
