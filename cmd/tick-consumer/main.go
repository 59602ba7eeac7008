package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/8abak/ctrade-segments/internal/bootstrap"
	"github.com/8abak/ctrade-segments/internal/consumer"
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

	tickConsumer := consumer.NewTickConsumer(cfg.TickKafka, lg, b.Repository.TickRepository)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	wg := sync.WaitGroup{}
	wg.Add(2)
	go func() {
		defer wg.Done()
		tickConsumer.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		tickConsumer.Subscribe(ctx)
	}()

	<-quit

	lg.Info("Shutting down tick consumer...")
	cancel()
	if err := tickConsumer.Stop(); err != nil {
		lg.Error(err, logger.NewField("action", "consumer_stop"))
	}
	wg.Wait()

	lg.Info("Tick consumer stopped")
}
