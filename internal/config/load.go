package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load reads EngineConfig fields out of v, falling back to
// NewEngineConfigWithOptionsAndDefaults's defaults for anything v does not
// set. v is expected to already have its config file, flags, and
// environment variables merged in (cmd/vgctl's root command does this
// before calling Load).
func Load(v *viper.Viper) (*EngineConfig, error) {
	cfg := NewEngineConfigWithOptionsAndDefaults()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding engine configuration: %w", err)
	}

	if cfg.Executor.CartesianCap != nil && *cfg.Executor.CartesianCap == 0 {
		cfg.Executor.CartesianCap = nil
	}

	return cfg, nil
}
