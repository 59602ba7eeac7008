package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/8abak/ctrade-segments/internal/bootstrap"
	"github.com/8abak/ctrade-segments/pkg/config"
	"github.com/8abak/ctrade-segments/pkg/logger"
	"github.com/8abak/ctrade-segments/pkg/postgresql"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer lg.Sync()

	client, err := postgresql.NewClient(ctx, cfg.Postgres)
	if err != nil {
		lg.Error(err, logger.NewField("action", "init_db"))
		os.Exit(1)
	}
	defer client.Close()

	b := &bootstrap.Bootstrap{}
	if _, err := b.Init(ctx, bootstrap.BootstrapConfig{
		Config:   cfg,
		Logger:   lg,
		Postgres: client,
	}); err != nil {
		lg.Error(err, logger.NewField("action", "bootstrap"))
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		lg.Info("Shutting down resolver...")
		cancel()
	}()

	seeded, err := b.Usecase.Resolver.Seed(ctx)
	if err != nil {
		lg.Error(err, logger.NewField("action", "resolver_seed"))
		os.Exit(1)
	}
	lg.Info("events seeded", logger.NewField("count", seeded))

	stats, err := b.Usecase.Resolver.Run(ctx)
	if err != nil {
		lg.Error(err, logger.NewField("action", "resolver_run"))
		os.Exit(1)
	}

	lg.Info("resolver pass finished",
		logger.NewField("resolved", stats.Resolved),
		logger.NewField("provisional", stats.Provisional),
		logger.NewField("skipped", stats.Skipped),
	)
}
