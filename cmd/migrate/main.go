package main

import (
	"context"
	"log"

	"github.com/8abak/ctrade-segments/pkg/config"
	"github.com/8abak/ctrade-segments/pkg/migration"
	"github.com/8abak/ctrade-segments/pkg/postgresql"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client, err := postgresql.NewClient(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer client.Close()

	runner := migration.NewRunner(client, migration.Config{
		MigrationDir: "migrations",
	})

	if err := runner.EnsureMigrationTable(ctx); err != nil {
		log.Fatalf("Failed to ensure migration table: %v", err)
	}

	if err := runner.Run(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")
}
