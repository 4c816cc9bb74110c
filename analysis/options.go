package analysis

import (
	"fmt"

	"github.com/arloliu/tsln/errs"
	"github.com/arloliu/tsln/internal/options"
	"github.com/arloliu/tsln/schema"
)

// Config holds the analysis parameters.
type Config struct {
	// Parallelism is the maximum number of fields profiled concurrently.
	Parallelism int
	// Capabilities gates the strategies SelectStrategies may choose.
	Capabilities schema.Capabilities
}

func defaultConfig() Config {
	return Config{
		Parallelism:  1,
		Capabilities: schema.DefaultCapabilities(),
	}
}

// Option is a functional option for Config.
type Option = options.Option[*Config]

// WithParallelism profiles up to n fields concurrently. n must be positive.
func WithParallelism(n int) Option {
	return options.New(func(cfg *Config) error {
		if n <= 0 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidParallelism, n)
		}
		cfg.Parallelism = n

		return nil
	})
}

// WithCapabilities sets the enabled strategies.
func WithCapabilities(caps schema.Capabilities) Option {
	return options.NoError(func(cfg *Config) {
		cfg.Capabilities = caps
	})
}

func newConfig(opts []Option) (Config, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return cfg, err
	}

	return cfg, nil
}
