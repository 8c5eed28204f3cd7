// Package config reads runtime configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"
)

// Config holds the environment-driven runtime settings.
type Config struct {
	// LogLevel is a logrus level name: panic, fatal, error, warn, info,
	// debug or trace.
	LogLevel string `env:"PTREE_LOG_LEVEL" envDefault:"info"`
	// MetricsAddr is the listen address for the Prometheus endpoint.
	// Empty disables the listener.
	MetricsAddr string `env:"PTREE_METRICS_ADDR" envDefault:""`
	// ProcMount is the procfs mount point to seed the tree from.
	ProcMount string `env:"PTREE_PROC_MOUNT" envDefault:"/proc"`
}

// Parse reads the configuration from environment variables.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config from environment: %w", err)
	}
	return &cfg, nil
}

// ParseLogLevel resolves the configured level name.
func (c *Config) ParseLogLevel() (log.Level, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
