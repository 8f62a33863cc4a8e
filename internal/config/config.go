package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config is the process configuration, loaded from the environment.
// It supplies defaults and deployment wiring; per-user mutable state
// (active period, chosen file paths) lives in the settings store.
type Config struct {
	// Data
	DataDir          string
	TransactionsFile string
	ProjectedFile    string
	SettingsDBPath   string

	// Backup
	GCSBucket             string
	GoogleCredentialsFile string

	// UI niceties
	RecentFilesLimit int
}

func Load() *Config {
	dataDir := getEnv("WMB_DATA_DIR", "./data")

	cfg := &Config{
		DataDir:          dataDir,
		TransactionsFile: getEnv("WMB_TRANSACTIONS_FILE", filepath.Join(dataDir, "transactions.csv")),
		ProjectedFile:    getEnv("WMB_PROJECTED_FILE", filepath.Join(dataDir, "projected.csv")),
		SettingsDBPath:   getEnv("WMB_SETTINGS_DB_PATH", filepath.Join(dataDir, "state.db")),

		GCSBucket:             getEnv("WMB_GCS_BUCKET", ""),
		GoogleCredentialsFile: getEnv("WMB_GOOGLE_CREDENTIALS_FILE", ""),

		RecentFilesLimit: getEnvInt("WMB_RECENT_FILES_LIMIT", 10),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if c.DataDir == "" {
		errs = append(errs, "data directory cannot be empty")
	} else if _, err := os.Stat(c.DataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.DataDir, 0755); err != nil {
			errs = append(errs, fmt.Sprintf("cannot create data directory '%s': %v", c.DataDir, err))
		}
	}

	if c.TransactionsFile == "" {
		errs = append(errs, "transactions file path cannot be empty")
	}
	if c.ProjectedFile == "" {
		errs = append(errs, "projected file path cannot be empty")
	}
	if c.TransactionsFile != "" && c.TransactionsFile == c.ProjectedFile {
		errs = append(errs, "transactions and projected files must be different paths")
	}
	if c.SettingsDBPath == "" {
		errs = append(errs, "settings database path cannot be empty")
	}

	if c.GoogleCredentialsFile != "" {
		if _, err := os.Stat(c.GoogleCredentialsFile); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("Google credentials file does not exist: %s", c.GoogleCredentialsFile))
		}
	}

	if c.RecentFilesLimit < 1 {
		errs = append(errs, fmt.Sprintf("invalid recent files limit %d: must be at least 1", c.RecentFilesLimit))
	} else if c.RecentFilesLimit > 100 {
		errs = append(errs, fmt.Sprintf("invalid recent files limit %d: must be at most 100", c.RecentFilesLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

// BackupConfigured reports whether a backup bucket is set.
func (c *Config) BackupConfigured() bool {
	return c.GCSBucket != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
