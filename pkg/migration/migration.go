package migration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/8abak/ctrade-segments/pkg/postgresql"
)

// Runner applies SQL-file migrations in lexical order, recording applied
// files in a schema_migrations table.
type Runner struct {
	client       postgresql.PostgreSQLClient
	migrationDir string
	tableName    string
}

// Config for the migration runner.
type Config struct {
	MigrationDir string
	TableName    string // default "schema_migrations"
}

// NewRunner creates a new migration runner.
func NewRunner(client postgresql.PostgreSQLClient, config Config) *Runner {
	if config.TableName == "" {
		config.TableName = "schema_migrations"
	}

	return &Runner{
		client:       client,
		migrationDir: config.MigrationDir,
		tableName:    config.TableName,
	}
}

// EnsureMigrationTable creates the bookkeeping table if it doesn't exist.
func (r *Runner) EnsureMigrationTable(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, r.tableName)

	if _, err := r.client.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure migration table: %w", err)
	}

	return nil
}

// Run applies all pending migrations.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.EnsureMigrationTable(ctx); err != nil {
		return err
	}

	files, err := filepath.Glob(filepath.Join(r.migrationDir, "*.sql"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		name := filepath.Base(file)

		applied, err := r.isApplied(ctx, name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		err = postgresql.WithTx(ctx, r.client, func(txCtx context.Context) error {
			if _, err := r.client.Exec(txCtx, string(content)); err != nil {
				return fmt.Errorf("migration %s failed: %w", name, err)
			}
			query := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1)`, r.tableName)
			_, err := r.client.Exec(txCtx, query, name)
			return err
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *Runner) isApplied(ctx context.Context, name string) (bool, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE name = $1`, r.tableName)

	var count int
	if err := r.client.QueryRow(ctx, query, name).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check migration %s: %w", name, err)
	}

	return count > 0, nil
}
