// Package config holds the run configuration for a batch enrichment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// OutputFileName is the name of the results table written to the output directory.
	OutputFileName = "output.csv"
	// LogFileName is the name of the activity log written to the output directory.
	LogFileName = "log.txt"

	// APIBaseURLEnv overrides the GitHub API endpoint, e.g. for GitHub Enterprise.
	APIBaseURLEnv = "REPO_ENRICHER_API_URL"
	// DefaultAPIBaseURL is the public GitHub REST API endpoint.
	DefaultAPIBaseURL = "https://api.github.com/"
)

// Config holds all configuration for a single run.
// An empty OutputDir writes the artifacts to the working directory.
type Config struct {
	InputPath  string
	OutputDir  string
	APIBaseURL string
}

// Load builds a Config from the given paths and the environment.
// A .env file in the working directory is read if present.
func Load(inputPath, outputDir string) (*Config, error) {
	// .env is optional.
	_ = godotenv.Load()

	cfg := &Config{
		InputPath:  inputPath,
		OutputDir:  outputDir,
		APIBaseURL: getEnv(APIBaseURLEnv, DefaultAPIBaseURL),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("input file path is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", APIBaseURLEnv, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s: unsupported scheme %q", APIBaseURLEnv, u.Scheme)
	}
	return nil
}

// OutputPath returns the path of the results table.
func (c *Config) OutputPath() string {
	return filepath.Join(c.OutputDir, OutputFileName)
}

// LogPath returns the path of the activity log.
func (c *Config) LogPath() string {
	return filepath.Join(c.OutputDir, LogFileName)
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
