package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WMB_DATA_DIR", "")
	t.Setenv("WMB_TRANSACTIONS_FILE", "")
	t.Setenv("WMB_PROJECTED_FILE", "")
	t.Setenv("WMB_SETTINGS_DB_PATH", "")
	t.Setenv("WMB_GCS_BUCKET", "")
	t.Setenv("WMB_RECENT_FILES_LIMIT", "")

	cfg := Load()
	if cfg.DataDir != "./data" {
		t.Errorf("DataDir = %q, want ./data", cfg.DataDir)
	}
	if cfg.TransactionsFile != filepath.Join("./data", "transactions.csv") {
		t.Errorf("TransactionsFile = %q", cfg.TransactionsFile)
	}
	if cfg.ProjectedFile != filepath.Join("./data", "projected.csv") {
		t.Errorf("ProjectedFile = %q", cfg.ProjectedFile)
	}
	if cfg.RecentFilesLimit != 10 {
		t.Errorf("RecentFilesLimit = %d, want 10", cfg.RecentFilesLimit)
	}
	if cfg.BackupConfigured() {
		t.Errorf("backup must be off without a bucket")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("WMB_DATA_DIR", "/srv/budget")
	t.Setenv("WMB_TRANSACTIONS_FILE", "/srv/budget/tx.csv")
	t.Setenv("WMB_GCS_BUCKET", "budget-backups")
	t.Setenv("WMB_RECENT_FILES_LIMIT", "5")

	cfg := Load()
	if cfg.DataDir != "/srv/budget" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.TransactionsFile != "/srv/budget/tx.csv" {
		t.Errorf("TransactionsFile = %q", cfg.TransactionsFile)
	}
	if cfg.GCSBucket != "budget-backups" || !cfg.BackupConfigured() {
		t.Errorf("bucket not picked up: %+v", cfg)
	}
	if cfg.RecentFilesLimit != 5 {
		t.Errorf("RecentFilesLimit = %d, want 5", cfg.RecentFilesLimit)
	}
}

func TestLoadIgnoresBadInt(t *testing.T) {
	t.Setenv("WMB_RECENT_FILES_LIMIT", "lots")
	cfg := Load()
	if cfg.RecentFilesLimit != 10 {
		t.Errorf("unparseable int must fall back to the default, got %d", cfg.RecentFilesLimit)
	}
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		dir := t.TempDir()
		return &Config{
			DataDir:          dir,
			TransactionsFile: filepath.Join(dir, "transactions.csv"),
			ProjectedFile:    filepath.Join(dir, "projected.csv"),
			SettingsDBPath:   filepath.Join(dir, "state.db"),
			RecentFilesLimit: 10,
		}
	}

	t.Run("valid", func(t *testing.T) {
		if err := valid(t).Validate(); err != nil {
			t.Fatalf("expected valid config, got %v", err)
		}
	})

	t.Run("creates missing data dir", func(t *testing.T) {
		cfg := valid(t)
		cfg.DataDir = filepath.Join(t.TempDir(), "nested", "data")
		if err := cfg.Validate(); err != nil {
			t.Fatalf("missing data dir should be created: %v", err)
		}
	})

	t.Run("same transaction and projected path", func(t *testing.T) {
		cfg := valid(t)
		cfg.ProjectedFile = cfg.TransactionsFile
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "different paths") {
			t.Fatalf("expected path collision error, got %v", err)
		}
	})

	t.Run("missing credentials file", func(t *testing.T) {
		cfg := valid(t)
		cfg.GoogleCredentialsFile = filepath.Join(t.TempDir(), "nope.json")
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for missing credentials file")
		}
	})

	t.Run("recent files limit bounds", func(t *testing.T) {
		cfg := valid(t)
		cfg.RecentFilesLimit = 0
		if err := cfg.Validate(); err == nil {
			t.Fatalf("limit below 1 must be rejected")
		}
		cfg = valid(t)
		cfg.RecentFilesLimit = 101
		if err := cfg.Validate(); err == nil {
			t.Fatalf("limit above 100 must be rejected")
		}
	})

	t.Run("accumulates errors", func(t *testing.T) {
		cfg := &Config{}
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("expected errors for empty config")
		}
		for _, want := range []string{"data directory", "transactions file", "projected file", "settings database"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("error should mention %q: %v", want, err)
			}
		}
	})
}
