package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration with the following priority (highest to
// lowest): environment variables (JELLYGRAPH_*), the config file, then
// defaults. When path is empty, jellygraph.yml is searched for in the
// current directory; a missing file is fine and leaves defaults + env
// in effect.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("jellygraph")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("JELLYGRAPH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("dump.path")
	v.BindEnv("trace.max_depth")
	v.BindEnv("match.base_path")
	v.BindEnv("cache.capacity")

	defaults := Default()
	v.SetDefault("trace.max_depth", defaults.Trace.MaxDepth)
	v.SetDefault("cache.capacity", defaults.Cache.Capacity)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
