package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"frota/internal/amqp"
	"frota/internal/cache"
	"frota/internal/cli"
	apphttp "frota/internal/http"
	"frota/internal/observability"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// AMQP is optional: without it report requests fall back to the
	// inline download endpoint.
	var publisher apphttp.JobPublisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, report queue disabled", "error", err)
	} else {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	metrics := observability.NewMetrics()
	srv := apphttp.NewServer(cfg, repo, publisher, metrics, logger)

	cacheManager := cache.NewManager()
	cacheManager.Register(srv.DashboardCache())
	cacheManager.StartCleanup(time.Minute)
	defer cacheManager.Stop()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting frota server", "port", cfg.Port)
	if err := srv.ListenAndServe(ctx, cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
