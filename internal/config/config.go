// Package config provides configuration loading and validation for the server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the server configuration, loaded from environment variables.
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string // Gemini API key

	// StageTimeout bounds each individual LLM call made by the pipeline.
	StageTimeout time.Duration
	// MaxConcurrentJobs bounds the number of pipeline runs executing at once.
	MaxConcurrentJobs int64
}

// Load reads the configuration from the environment. DATABASE_URL and
// GEMINI_API_KEY are required; everything else has a default.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              8080,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		APIKey:            os.Getenv("GEMINI_API_KEY"),
		StageTimeout:      45 * time.Second,
		MaxConcurrentJobs: 8,
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	if timeoutStr := os.Getenv("LLM_STAGE_TIMEOUT_SECONDS"); timeoutStr != "" {
		secs, err := strconv.Atoi(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid LLM_STAGE_TIMEOUT_SECONDS: %v", err)
		}
		cfg.StageTimeout = time.Duration(secs) * time.Second
	}

	if maxStr := os.Getenv("MAX_CONCURRENT_JOBS"); maxStr != "" {
		n, err := strconv.ParseInt(maxStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_CONCURRENT_JOBS: %v", err)
		}
		cfg.MaxConcurrentJobs = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	if c.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required but not set")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.StageTimeout < time.Second {
		return fmt.Errorf("stage timeout too small: %s", c.StageTimeout)
	}
	if c.MaxConcurrentJobs < 1 {
		return fmt.Errorf("MAX_CONCURRENT_JOBS must be at least 1, got: %d", c.MaxConcurrentJobs)
	}
	return nil
}
