// Package config loads the application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvSearchURL  = "GITHUB_SEARCH_URL"
	EnvToken      = "GITHUB_TOKEN"
	EnvAPIVersion = "GITHUB_API_VERSION"
	EnvGraphQLURL = "GITHUB_GRAPHQL_URL"

	DefaultAPIVersion = "2022-11-28"
	DefaultGraphQLURL = "https://api.github.com/graphql"
	DefaultEnvFile    = ".env"
)

// Config holds all configuration for the application.
type Config struct {
	SearchURL  string
	Token      string
	APIVersion string
	GraphQLURL string
}

// Load reads envFile into the environment, if present, and builds a validated Config.
// Variables already set in the environment take precedence over the file.
// A missing DefaultEnvFile is ignored; any other missing file is an error.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		if envFile != DefaultEnvFile || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		SearchURL:  os.Getenv(EnvSearchURL),
		Token:      os.Getenv(EnvToken),
		APIVersion: getEnv(EnvAPIVersion, DefaultAPIVersion),
		GraphQLURL: getEnv(EnvGraphQLURL, DefaultGraphQLURL),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.SearchURL == "" {
		return fmt.Errorf("%s is required", EnvSearchURL)
	}
	if err := validateURL(EnvSearchURL, c.SearchURL); err != nil {
		return err
	}
	if c.Token == "" {
		return fmt.Errorf("%s is required", EnvToken)
	}
	return validateURL(EnvGraphQLURL, c.GraphQLURL)
}

func validateURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", key, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, raw)
	}
	return nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
