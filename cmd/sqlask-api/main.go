package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sqlask/sqlask/internal/api"
	"github.com/sqlask/sqlask/internal/api/uistatic"
	auditpostgres "github.com/sqlask/sqlask/internal/audit/postgres"
	"github.com/sqlask/sqlask/internal/auth"
	"github.com/sqlask/sqlask/internal/completion/backend"
	"github.com/sqlask/sqlask/internal/config"
	"github.com/sqlask/sqlask/internal/nl2sql"
	"github.com/sqlask/sqlask/internal/observability"
	querybackend "github.com/sqlask/sqlask/internal/query/backend"
)

func main() {
	cfg, err := config.LoadFromEnv("sqlask-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)
	database, err := querybackend.Open(context.Background(), cfg.Database, cfg.Schema.SampleRows, cfg.Query.MaxRows)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	completer, err := backend.New(cfg.AI)
	if err != nil {
		logger.Error("failed to initialize completion provider", slog.Any("error", err))
		os.Exit(1)
	}
	pipeline, err := nl2sql.NewPipeline(database.Schema, database.Executor, completer, logger)
	if err != nil {
		logger.Error("failed to initialize pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	deps := api.Dependencies{
		Logger:            logger,
		Asker:             pipeline,
		Schema:            database.Schema,
		UI:                uistatic.Handler(),
		DependencyTimeout: time.Second,
	}
	readiness := []api.ReadinessCheck{api.CheckDatabase(database.DB)}

	if cfg.Audit.DSN != "" {
		auditDB, err := auditpostgres.Open(context.Background(), auditpostgres.DBConfig{
			DSN:             cfg.Audit.DSN,
			MaxOpenConns:    cfg.Audit.MaxOpenConns,
			MaxIdleConns:    cfg.Audit.MaxIdleConns,
			ConnMaxIdleTime: cfg.Audit.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.Audit.ConnMaxLifetime,
		})
		if err != nil {
			logger.Error("failed to open audit db", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = auditDB.Close() }()

		auditRepo := auditpostgres.NewRepository(auditDB)
		deps.AuditRecorder = auditRepo
		deps.AuditReader = auditRepo
		readiness = append(readiness, auditRepo.HealthCheck)
	}
	deps.Readiness = api.CombineReadinessChecks(readiness...)

	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator, auth.RoleQueryReader)
	}

	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      api.NewHandler(cfg, deps),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting api server",
			slog.String("addr", cfg.HTTP.Address),
			slog.String("driver", database.Driver),
			slog.String("database", cfg.Database.Path),
			slog.String("ai_provider", completer.Name()),
			slog.Bool("audit", cfg.Audit.DSN != ""),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		logger.Info("shutting down api server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			_ = server.Close()
			return err
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Error("api server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}
