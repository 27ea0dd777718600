package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     int    `envconfig:"PORT" default:"3000"`
	Env      string `envconfig:"ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	LokiHost         string        `envconfig:"MY_HOST" default:""`
	LokiPort         int           `envconfig:"LOKI_PORT" default:"3100"`
	LokiJob          string        `envconfig:"LOKI_JOB" default:"go-app"`
	LokiBatchBytes   int           `envconfig:"LOKI_BATCH_BYTES" default:"102400"`
	LokiBatchWait    time.Duration `envconfig:"LOKI_BATCH_WAIT" default:"1s"`
	LokiFlushTimeout time.Duration `envconfig:"LOKI_FLUSH_TIMEOUT" default:"3s"`

	HeavyTaskDelay  time.Duration `envconfig:"HEAVY_TASK_DELAY" default:"5s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	Version, Commit, BuildDate string
}

func Load(version, commit, buildDate string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.Version, cfg.Commit, cfg.BuildDate = version, commit, buildDate
	return &cfg, nil
}

// LokiURL returns the base URL of the log aggregator, or "" when shipping is disabled.
func (c *Config) LokiURL() string {
	if c.LokiHost == "" {
		return ""
	}
	return fmt.Sprintf("http://%s:%d", c.LokiHost, c.LokiPort)
}
