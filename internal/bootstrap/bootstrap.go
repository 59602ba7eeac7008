package bootstrap

import (
	"context"

	tickinfra "github.com/8abak/ctrade-segments/internal/infrastructure/postgresql/tick"
	"github.com/8abak/ctrade-segments/pkg/config"
	"github.com/8abak/ctrade-segments/pkg/logger"
	"github.com/8abak/ctrade-segments/pkg/postgresql"
)

// Bootstrap wires the pipeline's dependencies. Everything process-wide
// (resolved schema mapping, shared pool, config) lives here explicitly
// and is passed down, never read from globals.
type Bootstrap struct {
	Config     *config.Config
	Logger     logger.Interface
	Postgres   postgresql.PostgreSQLClient
	Repository Repository
	Usecase    Usecase
}

// BootstrapConfig is the config for the bootstrap.
type BootstrapConfig struct {
	Config   *config.Config
	Logger   logger.Interface
	Postgres postgresql.PostgreSQLClient
}

// Init initializes the bootstrap: the tick field mapping is resolved
// once here, then repositories and usecases are registered.
func (b *Bootstrap) Init(ctx context.Context, cfg BootstrapConfig) (Bootstrap, error) {
	b.Config = cfg.Config
	b.Logger = cfg.Logger
	b.Postgres = cfg.Postgres

	mapping, err := tickinfra.ResolveMapping(ctx, b.Postgres, b.Config.Ticks)
	if err != nil {
		return *b, err
	}

	b.Logger.Info("tick field mapping resolved", logger.Field{
		Key:   "mapping",
		Value: mapping.String(),
	})

	b.registerRepository(mapping)
	b.registerUsecase()

	return *b, nil
}
