// Package config holds the environment-derived settings of the toolkit.
package config

import (
	"github.com/caarlos0/env/v11"
)

// Config is read once from the environment when the public API first runs
type Config struct {
	// Debug enables the development logger and the per-member decision trace
	Debug bool `env:"FIXKIT_DEBUG"`

	// MaxRecordedCalls caps per-proxy call recording; zero means unlimited
	MaxRecordedCalls int `env:"FIXKIT_MAX_RECORDED_CALLS" envDefault:"0"`
}

// Load parses the configuration from the process environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
