// Package config loads the settings of the tsln command from defaults, an
// optional YAML or TOML file and TSLN_ environment variables, in that order.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arloliu/tsln/codec"
	"github.com/arloliu/tsln/format"
	"github.com/arloliu/tsln/metrics"
)

// EnvPrefix is the prefix of environment overrides. A double underscore
// separates key levels: TSLN_ENCODE__DIFFERENTIAL=false sets encode.differential.
const EnvPrefix = "TSLN_"

// Config is the complete tool configuration, one section per concern.
type Config struct {
	Encode  EncodeConfig  `koanf:"encode"`
	Metrics MetricsConfig `koanf:"metrics"`
	Server  ServerConfig  `koanf:"server"`
	Log     LogConfig     `koanf:"log"`
}

// EncodeConfig selects the encoder capabilities and profiling parallelism.
type EncodeConfig struct {
	Differential bool `koanf:"differential"`
	Repeat       bool `koanf:"repeat"`
	Parallelism  int  `koanf:"parallelism"`
}

// MetricsConfig selects how sizes and tokens are measured.
type MetricsConfig struct {
	// Tokenizer is "heuristic" or a tiktoken encoding name such as "cl100k_base".
	Tokenizer string `koanf:"tokenizer"`
	// Compression is "none", "zstd", "s2" or "lz4".
	Compression string `koanf:"compression"`
}

// ServerConfig holds the HTTP service settings.
type ServerConfig struct {
	Addr string `koanf:"addr"`

	// CacheSize is the number of responses kept in the LRU cache; 0 disables it.
	CacheSize    int   `koanf:"cache_size"`
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// TimeoutSeconds bounds each request; a request past it gets 503.
	TimeoutSeconds int `koanf:"timeout_seconds"`
}

// LogConfig controls the level and format of the slog handler.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `koanf:"level"`
	// Format is "text", "json" or "auto" (text on a terminal, JSON otherwise).
	Format string `koanf:"format"`
}

var defaults = map[string]any{
	"encode.differential":    true,
	"encode.repeat":          true,
	"encode.parallelism":     1,
	"metrics.tokenizer":      metrics.HeuristicName,
	"metrics.compression":    "none",
	"server.addr":            ":8080",
	"server.cache_size":      128,
	"server.max_body_bytes":  32 << 20,
	"server.timeout_seconds": 30,
	"log.level":              "info",
	"log.format":             "auto",
}

// Load reads the configuration. An empty path skips the file; a named file
// must exist and is parsed as TOML when its extension is .toml, YAML otherwise.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	for key, value := range defaults {
		if !k.Exists(key) {
			if err := k.Set(key, value); err != nil {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return TOML()
	}

	return yaml.Parser()
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if _, ok := format.ParseCompression(c.Metrics.Compression); !ok {
		return fmt.Errorf("unknown compression %q", c.Metrics.Compression)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}

	return nil
}

// EncoderOptions translates the encode section into codec options.
func (c *Config) EncoderOptions() []codec.EncoderOption {
	return []codec.EncoderOption{
		codec.WithDifferential(c.Encode.Differential),
		codec.WithRepeatMarkers(c.Encode.Repeat),
		codec.WithParallelism(c.Encode.Parallelism),
	}
}

// MetricsOptions translates the metrics section into metrics options.
func (c *Config) MetricsOptions() ([]metrics.Option, error) {
	counter, err := metrics.NewTokenCounter(c.Metrics.Tokenizer)
	if err != nil {
		return nil, err
	}

	opts := []metrics.Option{metrics.WithTokenCounter(counter)}

	ct, ok := format.ParseCompression(c.Metrics.Compression)
	if !ok {
		return nil, fmt.Errorf("unknown compression %q", c.Metrics.Compression)
	}
	if ct != format.CompressionNone {
		opts = append(opts, metrics.WithCompression(ct))
	}

	return opts, nil
}
