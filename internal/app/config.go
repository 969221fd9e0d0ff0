package app

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PipelinePath string // .hcl file or directory

	LogFormat string
	LogLevel  string

	// StatusPort serves /health and /metrics when positive.
	StatusPort int
	// Timeout bounds the wait for the graph to finish. Zero waits forever.
	Timeout time.Duration
	// DOTPath receives the registered plan in Graphviz format when set.
	DOTPath      string
	OTelEndpoint string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.PipelinePath == "" {
		return nil, errors.New("PipelinePath is a required configuration field and cannot be empty")
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %s", cfg.Timeout)
	}
	if cfg.StatusPort < 0 || cfg.StatusPort > 65535 {
		return nil, fmt.Errorf("status port %d is out of range", cfg.StatusPort)
	}

	return &cfg, nil
}
