package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"

	"github.com/vertti/childproc/pkg/envlock"
)

// Prefix is prepended to every variable name read by Parse.
const Prefix = "CHILDPROC_"

// Config holds runtime settings from CHILDPROC_* environment variables
type Config struct {
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"20ms"`
	LogLevel     logrus.Level  `env:"LOG_LEVEL" envDefault:"warn"`
	NoColor      bool          `env:"NO_COLOR"`
}

// Parse reads the configuration from a snapshot of the process environment
// taken under the environment lock.
func Parse() (*Config, error) {
	return ParseFrom(envlock.Snapshot())
}

// ParseFrom reads the configuration from the given variables.
func ParseFrom(environ map[string]string) (*Config, error) {
	var cfg Config
	opts := env.Options{
		Environment: environ,
		Prefix:      Prefix,
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("failed to parse config: %sPOLL_INTERVAL must be positive, got %s", Prefix, cfg.PollInterval)
	}
	return &cfg, nil
}

// ConfigureLogging applies the log level to the standard logrus logger.
// Debug overrides the configured level.
func (c *Config) ConfigureLogging(debug bool) {
	level := c.LogLevel
	if debug {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
}
