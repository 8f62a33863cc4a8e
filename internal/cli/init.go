// Package cli provides common initialization for the command-line
// entrypoint: logging, environment loading, configuration and the
// settings/repository wiring shared by every subcommand.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"

	"github.com/joshuarreid/whatsMyBudget-sub000/internal/config"
	applog "github.com/joshuarreid/whatsMyBudget-sub000/internal/log"
	"github.com/joshuarreid/whatsMyBudget-sub000/internal/repository"
	"github.com/joshuarreid/whatsMyBudget-sub000/internal/settings"
)

// SetupLogger initializes structured logging and installs it as the
// process default.
func SetupLogger() *applog.Logger {
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitSettings opens the settings store.
// Returns the store or exits the process on failure.
func InitSettings(logger *applog.Logger, dbPath string) *settings.Store {
	st, err := settings.New(dbPath)
	if err != nil {
		logger.Error("Failed to initialize settings store", applog.FieldError, err, applog.FieldPath, dbPath)
		os.Exit(1)
	}
	return st
}

// OpenRepositories resolves the record file locations (settings value
// first, config default otherwise, persisting the default on first
// use) and binds the two repositories.
func OpenRepositories(ctx context.Context, logger *applog.Logger, cfg *config.Config, st *settings.Store) (*repository.TransactionRepository, *repository.ProjectedRepository) {
	txPath := resolvePath(ctx, logger, st, settings.KeyTransactionFilePath, cfg.TransactionsFile)
	projPath := resolvePath(ctx, logger, st, settings.KeyProjectedFilePath, cfg.ProjectedFile)
	return repository.NewTransactionRepository(txPath), repository.NewProjectedRepository(projPath)
}

func resolvePath(ctx context.Context, logger *applog.Logger, st *settings.Store, key, fallback string) string {
	v, err := st.Get(ctx, key)
	if err == nil && v != "" {
		return v
	}
	if err != nil && !errors.Is(err, settings.ErrNotSet) {
		logger.Warn("Failed to read path setting, using default", applog.FieldError, err, "key", key)
		return fallback
	}
	if err := st.Set(ctx, key, fallback); err != nil {
		logger.Warn("Failed to persist default path", applog.FieldError, err, "key", key)
	}
	return fallback
}
