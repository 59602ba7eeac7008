package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
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
		lg.Info("Shutting down segmenter...")
		cancel()
	}()

	// One pass per scale. Scales are independent so they run in
	// parallel, each resuming from its own cursor.
	wg := sync.WaitGroup{}
	for scale, uc := range b.Usecase.Segmenters {
		scale, uc := scale, uc
		wg.Add(1)
		go func() {
			defer wg.Done()

			stats, err := uc.Run(ctx)
			if err != nil {
				lg.Error(err,
					logger.NewField("action", "segmenter_run"),
					logger.NewField("scale", string(scale)),
				)
				return
			}

			lg.Info("segmenter pass finished",
				logger.NewField("scale", string(scale)),
				logger.NewField("ticks_processed", stats.TicksProcessed),
				logger.NewField("segments_committed", stats.SegmentsCommitted),
			)
		}()
	}
	wg.Wait()

	lg.Info("Segmenter stopped")
}
