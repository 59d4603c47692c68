package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/config"
	"fintrack/internal/events"
	apphttp "fintrack/internal/http"
	"fintrack/internal/insights"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

func main() {
	// Load .env for local development; deployments set real env vars.
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to open storage", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	opts := []services.Option{}

	if cfg.AMQPURL != "" {
		eventsClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("failed to connect to broker", log.FieldError, err)
			os.Exit(1)
		}
		defer eventsClient.Close()
		opts = append(opts, services.WithEvents(eventsClient))
		logger.Info("mutation events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("mutation events disabled, no AMQP URL configured")
	}

	if cfg.GeminiAPIKey != "" {
		advisor, err := insights.NewAdvisor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			logger.Error("failed to initialize insights advisor", log.FieldError, err)
			os.Exit(1)
		}
		defer advisor.Close()
		opts = append(opts, services.WithAdvisor(advisor))
		logger.Info("AI insights enabled", "model", cfg.GeminiModel)
	} else {
		logger.Info("AI insights disabled, no API key configured")
	}

	svc := services.NewFinanceService(repo, cfg.SnapshotKey, logger, opts...)
	if err := svc.Load(ctx); err != nil {
		logger.Error("failed to load snapshot", log.FieldError, err)
		os.Exit(1)
	}

	server := apphttp.NewServer(cfg.Port, cfg.CORSOrigins, svc, repo, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("server exited with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}
