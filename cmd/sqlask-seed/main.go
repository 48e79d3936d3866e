package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sqlask/sqlask/internal/config"
	"github.com/sqlask/sqlask/internal/observability"
	querybackend "github.com/sqlask/sqlask/internal/query/backend"
	"github.com/sqlask/sqlask/internal/seed"
	"github.com/sqlask/sqlask/internal/storage"
	s3store "github.com/sqlask/sqlask/internal/storage/s3"
)

func main() {
	cfg, err := config.LoadFromEnv("sqlask-seed")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	scriptPath := flag.String("script", cfg.Seed.ScriptPath, "local SQL script to execute or publish")
	objectKey := flag.String("object", cfg.Seed.ObjectKey, "object store key of the SQL script; wins over -script")
	publish := flag.Bool("publish", false, "upload -script to the object store under -object instead of seeding")
	skipIfSeeded := flag.Bool("skip-if-seeded", cfg.Seed.SkipIfSeeded, "do nothing when the database already has tables")
	flag.Parse()

	logger := observability.NewLogger(cfg, os.Stdout)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var scripts storage.ScriptStore
	if *objectKey != "" {
		store, err := s3store.New(cfg.ObjectStore)
		if err != nil {
			logger.Error("failed to initialize object store", slog.Any("error", err))
			os.Exit(1)
		}
		if *publish {
			if err := store.EnsureBucket(ctx); err != nil {
				logger.Error("failed to ensure bucket", slog.Any("error", err))
				os.Exit(1)
			}
		}
		scripts = store
	}

	dbCfg := cfg.Database
	dbCfg.MaxOpenConns, dbCfg.MaxIdleConns = 1, 1
	database, err := querybackend.Open(ctx, dbCfg, 0, 0)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	seeder, err := seed.NewSeeder(database.DB, database.Schema, scripts, logger)
	if err != nil {
		logger.Error("failed to initialize seeder", slog.Any("error", err))
		os.Exit(1)
	}

	if *publish {
		if *objectKey == "" {
			logger.Error("-publish requires -object")
			os.Exit(2)
		}
		if _, err := seeder.Publish(ctx, *scriptPath, *objectKey); err != nil {
			logger.Error("failed to publish seed script", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	result, err := seeder.Run(ctx, seed.Options{
		ScriptPath:   *scriptPath,
		ObjectKey:    *objectKey,
		SkipIfSeeded: *skipIfSeeded,
	})
	if err != nil {
		logger.Error("seeding failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("seeding finished",
		slog.String("driver", database.Driver),
		slog.String("database", cfg.Database.Path),
		slog.Bool("skipped", result.Skipped),
		slog.Int("tables", result.Tables),
	)
}
