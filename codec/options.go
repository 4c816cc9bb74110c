package codec

import (
	"github.com/arloliu/tsln/internal/options"
	"github.com/arloliu/tsln/schema"
)

// EncoderConfig holds the encoder settings.
type EncoderConfig struct {
	Capabilities schema.Capabilities
	// Parallelism bounds the number of fields profiled concurrently.
	Parallelism int
}

// EncoderOption is a functional option for EncoderConfig.
type EncoderOption = options.Option[*EncoderConfig]

func defaultEncoderConfig() EncoderConfig {
	return EncoderConfig{
		Capabilities: schema.DefaultCapabilities(),
		Parallelism:  1,
	}
}

// WithDifferential enables or disables differential encoding. Enabled by default.
func WithDifferential(enabled bool) EncoderOption {
	return options.NoError(func(cfg *EncoderConfig) {
		cfg.Capabilities.Differential = enabled
	})
}

// WithRepeatMarkers enables or disables repeat markers. Enabled by default.
func WithRepeatMarkers(enabled bool) EncoderOption {
	return options.NoError(func(cfg *EncoderConfig) {
		cfg.Capabilities.RepeatMarkers = enabled
	})
}

// WithCapabilities replaces both capability flags at once.
func WithCapabilities(caps schema.Capabilities) EncoderOption {
	return options.NoError(func(cfg *EncoderConfig) {
		cfg.Capabilities = caps
	})
}

// WithParallelism profiles up to n fields concurrently. The document produced
// does not depend on n. Values below 1 leave the default of 1 in place.
func WithParallelism(n int) EncoderOption {
	return options.NoError(func(cfg *EncoderConfig) {
		if n > 0 {
			cfg.Parallelism = n
		}
	})
}
