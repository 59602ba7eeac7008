package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/8abak/ctrade-segments/internal/consumer"
	tickinfra "github.com/8abak/ctrade-segments/internal/infrastructure/postgresql/tick"
	"github.com/8abak/ctrade-segments/pkg/postgresql"
)

// Config represents the application configuration.
type Config struct {
	App       AppConfig            `envPrefix:"APP_"`
	Postgres  postgresql.Config    `envPrefix:"POSTGRES_"`
	Ticks     tickinfra.Config     `envPrefix:"TICKS_"`
	Segmenter SegmenterConfig      `envPrefix:"SEGMENTER_"`
	Resolver  ResolverConfig       `envPrefix:"RESOLVER_"`
	TickKafka consumer.KafkaConfig `envPrefix:"TICK_KAFKA_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"ctrade-segments"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// SegmenterConfig holds the per-scale reversal thresholds and the run
// bounds shared by all scales.
type SegmenterConfig struct {
	MicroThreshold  float64 `env:"MICRO_THRESHOLD" envDefault:"0.5"`
	MediumThreshold float64 `env:"MEDIUM_THRESHOLD" envDefault:"2.0"`
	MacroThreshold  float64 `env:"MACRO_THRESHOLD" envDefault:"8.0"`

	// Sub-moves run at this fraction of the scale threshold.
	SubMoveRatio float64 `env:"SUBMOVE_RATIO" envDefault:"0.25"`

	GapThreshold time.Duration `env:"GAP_THRESHOLD" envDefault:"5m"`

	BatchSize         int  `env:"BATCH_SIZE" envDefault:"5000"`
	MaxSegmentsPerRun int  `env:"MAX_SEGMENTS_PER_RUN" envDefault:"0"`
	MaxTicksPerRun    int  `env:"MAX_TICKS_PER_RUN" envDefault:"0"`
	LiveExtend        bool `env:"LIVE_EXTEND" envDefault:"false"`
}

// ResolverConfig holds the outcome resolution parameters.
type ResolverConfig struct {
	TargetDistance float64 `env:"TARGET_DISTANCE" envDefault:"2.0"`
	StopDistance   float64 `env:"STOP_DISTANCE" envDefault:"1.0"`

	// HorizonTicks bounds the forward scan by tick count; when
	// HorizonDuration is non-zero it takes precedence as a wall-clock
	// horizon instead.
	HorizonTicks    int           `env:"HORIZON_TICKS" envDefault:"2000"`
	HorizonDuration time.Duration `env:"HORIZON_DURATION" envDefault:"0"`

	// OnEmptyForward is "skip" or "timeout".
	OnEmptyForward string `env:"ON_EMPTY_FORWARD" envDefault:"skip"`

	BatchSize    int    `env:"BATCH_SIZE" envDefault:"500"`
	ForwardFetch int    `env:"FORWARD_FETCH" envDefault:"50000"`
	SeedScale    string `env:"SEED_SCALE" envDefault:"medium"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
