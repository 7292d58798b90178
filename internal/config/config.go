// Package config loads jellygraph configuration from file and
// environment with viper.
package config

import (
	"errors"
	"fmt"

	"github.com/hayato-n8810/jelly-graph/internal/trace"
)

// Config is the complete jellygraph configuration. It can be loaded
// from jellygraph.yml with environment variable overrides.
type Config struct {
	Dump  DumpConfig  `yaml:"dump" mapstructure:"dump"`
	Trace TraceConfig `yaml:"trace" mapstructure:"trace"`
	Match MatchConfig `yaml:"match" mapstructure:"match"`
	Cache CacheConfig `yaml:"cache" mapstructure:"cache"`
}

// DumpConfig locates the call relation dump.
type DumpConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // path to the dump JSON
}

// TraceConfig tunes path tracing.
type TraceConfig struct {
	MaxDepth int `yaml:"max_depth" mapstructure:"max_depth"` // max nodes per path
}

// MatchConfig tunes external record matching.
type MatchConfig struct {
	BasePath string `yaml:"base_path" mapstructure:"base_path"` // prefix for record paths; empty compares as given
}

// CacheConfig tunes the trace result cache.
type CacheConfig struct {
	Capacity int `yaml:"capacity" mapstructure:"capacity"` // max cached trace queries
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Trace: TraceConfig{
			MaxDepth: trace.DefaultMaxDepth,
		},
		Cache: CacheConfig{
			Capacity: 256,
		},
	}
}

var (
	// ErrInvalidMaxDepth indicates a non-positive trace depth limit.
	ErrInvalidMaxDepth = errors.New("invalid trace max depth")

	// ErrInvalidCacheCapacity indicates a non-positive cache capacity.
	ErrInvalidCacheCapacity = errors.New("invalid cache capacity")
)

// Validate checks that the configuration is usable.
func Validate(cfg *Config) error {
	if cfg.Trace.MaxDepth <= 0 {
		return fmt.Errorf("%w: %d (must be positive)", ErrInvalidMaxDepth, cfg.Trace.MaxDepth)
	}
	if cfg.Cache.Capacity <= 0 {
		return fmt.Errorf("%w: %d (must be positive)", ErrInvalidCacheCapacity, cfg.Cache.Capacity)
	}
	return nil
}
