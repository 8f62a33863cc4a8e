// Package settings is the process-wide state store: the active
// statement period, the record file locations and the recently-used
// file lists. Values are read at startup and written on change; the
// rest of the system receives them explicitly instead of reaching for
// a singleton.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joshuarreid/whatsMyBudget-sub000/internal/core"

	_ "modernc.org/sqlite"
)

// Well-known setting keys.
const (
	KeyActiveStatementPeriod = "activeStatementPeriod"
	KeyTransactionFilePath   = "transactionFilePath"
	KeyProjectedFilePath     = "projectedFilePath"
)

// Recent-file kinds.
const (
	RecentKindImport       = "import"
	RecentKindTransactions = "transactions"
	RecentKindProjected    = "projected"
)

// ErrNotSet is returned when a requested setting has no stored value.
var ErrNotSet = errors.New("setting not set")

// Store is a sqlite-backed key-value settings store.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the settings database at dbPath and
// runs schema migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open settings database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping settings database: %w", err)
	}
	if err := migrateSchema(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate settings database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the value for key, or ErrNotSet.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotSet
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

// Set stores the value for key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	slog.DebugContext(ctx, "setting saved", "component", "settings", "key", key)
	return nil
}

// All returns a snapshot of every stored setting.
func (s *Store) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

// ActiveStatementPeriod returns the currently active period.
func (s *Store) ActiveStatementPeriod(ctx context.Context) (core.StatementPeriod, error) {
	v, err := s.Get(ctx, KeyActiveStatementPeriod)
	if err != nil {
		return core.StatementPeriod{}, err
	}
	p, err := core.ParseStatementPeriod(v)
	if err != nil {
		return core.StatementPeriod{}, fmt.Errorf("stored active period %q: %w", v, err)
	}
	return p, nil
}

// SetActiveStatementPeriod advances the active-period pointer.
func (s *Store) SetActiveStatementPeriod(ctx context.Context, p core.StatementPeriod) error {
	return s.Set(ctx, KeyActiveStatementPeriod, p.String())
}

// TransactionFilePath returns the live transaction file location.
func (s *Store) TransactionFilePath(ctx context.Context) (string, error) {
	return s.Get(ctx, KeyTransactionFilePath)
}

// ProjectedFilePath returns the live projections file location.
func (s *Store) ProjectedFilePath(ctx context.Context) (string, error) {
	return s.Get(ctx, KeyProjectedFilePath)
}

// TouchRecentFile records that path was just used, bumping it to the
// top of its recent list.
func (s *Store) TouchRecentFile(ctx context.Context, kind, path string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recent_files (path, kind, last_used) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(path, kind) DO UPDATE SET last_used = CURRENT_TIMESTAMP`,
		path, kind)
	if err != nil {
		return fmt.Errorf("touch recent file: %w", err)
	}
	return nil
}

// RecentFiles returns up to limit paths of the given kind, most
// recently used first.
func (s *Store) RecentFiles(ctx context.Context, kind string, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path FROM recent_files WHERE kind = ?
		ORDER BY last_used DESC LIMIT ?`, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent files: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan recent file: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
