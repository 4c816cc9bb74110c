package metrics

import (
	"github.com/arloliu/tsln/compress"
	"github.com/arloliu/tsln/format"
	"github.com/arloliu/tsln/internal/options"
)

// Config holds measurement settings.
type Config struct {
	Counter TokenCounter
	// Compression is the codec used for CompressedSize; zero disables it.
	Compression format.CompressionType
	codec       compress.Codec
}

// Option is a functional option for Config.
type Option = options.Option[*Config]

// WithTokenCounter replaces the heuristic counter. A nil counter keeps the heuristic.
func WithTokenCounter(counter TokenCounter) Option {
	return options.NoError(func(cfg *Config) {
		if counter != nil {
			cfg.Counter = counter
		}
	})
}

// WithCompression also reports each text's size after compression with ct.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(cfg *Config) error {
		codec, err := compress.Get(ct)
		if err != nil {
			return err
		}
		cfg.Compression = ct
		cfg.codec = codec

		return nil
	})
}

func newConfig(opts []Option) (Config, error) {
	cfg := Config{Counter: HeuristicCounter{}}
	if err := options.Apply(&cfg, opts...); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// measure returns the byte size, token count and, when enabled, compressed size of text.
func (cfg *Config) measure(text string) (size, tokens, compressed int, err error) {
	size = len(text)

	tokens, err = cfg.Counter.CountTokens(text)
	if err != nil {
		return 0, 0, 0, err
	}

	if cfg.codec != nil {
		stats, err := compress.Measure(cfg.codec, text)
		if err != nil {
			return 0, 0, 0, err
		}
		compressed = stats.CompressedSize
	}

	return size, tokens, compressed, nil
}
