// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	APIKey        string
	APIBaseURL    string
	FeedIDs       []string
	FeedsPath     string
	DatabasePath  string
	ScanInterval  time.Duration
	PlayerCommand string
	AutoPlay      bool
}

// Default values
const (
	defaultAPIBaseURL   = "https://api.broadcastify.com/calls/v1"
	defaultScanInterval = 30 * time.Second

	// minScanInterval is the floor applied to SCAN_INTERVAL; polling
	// faster than this hammers the upstream API for no benefit.
	minScanInterval = 10 * time.Second
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		APIKey:        getEnvString("BROADCASTIFY_API_KEY", ""),
		APIBaseURL:    strings.TrimRight(getEnvString("BROADCASTIFY_API_URL", defaultAPIBaseURL), "/"),
		FeedIDs:       splitList(getEnvString("FEED_IDS", "")),
		FeedsPath:     getEnvString("FEEDS_PATH", getDefaultFeedsPath()),
		DatabasePath:  getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		ScanInterval:  getEnvDuration("SCAN_INTERVAL", defaultScanInterval),
		PlayerCommand: getEnvString("PLAYER_COMMAND", ""),
		AutoPlay:      getEnvBool("AUTO_PLAY", false),
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("BROADCASTIFY_API_KEY is required")
	}

	if cfg.ScanInterval < minScanInterval {
		cfg.ScanInterval = minScanInterval
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	// Ensure feeds directory exists
	if err := ensureDir(filepath.Dir(cfg.FeedsPath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "bct", ".env"),
			filepath.Join(home, ".bct", ".env"),
		)
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "calls.db"
	}
	return filepath.Join(home, ".config", "bct", "calls.db")
}

// getDefaultFeedsPath returns the default path for the feeds JSON file.
func getDefaultFeedsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "feeds.json"
	}
	return filepath.Join(home, ".config", "bct", "feeds.json")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// splitList splits a comma-separated list, trimming whitespace and dropping
// empty entries.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
