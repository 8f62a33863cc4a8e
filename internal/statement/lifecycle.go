// Package statement orchestrates end-of-statement rollover: archive
// the outgoing period's files, clear the live transaction store, purge
// the period's projections and advance the active-period pointer.
package statement

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joshuarreid/whatsMyBudget-sub000/internal/core"
	"github.com/joshuarreid/whatsMyBudget-sub000/internal/repository"
	"github.com/joshuarreid/whatsMyBudget-sub000/internal/settings"
)

var (
	ErrNoActivePeriod = errors.New("no active statement period")
	ErrNoLiveFile     = errors.New("transaction file path not resolvable")
)

// Manager runs statement transitions over the two repositories and the
// settings store.
type Manager struct {
	transactions *repository.TransactionRepository
	projected    *repository.ProjectedRepository
	settings     *settings.Store
	log          *slog.Logger
}

// NewManager wires a Manager.
func NewManager(tx *repository.TransactionRepository, proj *repository.ProjectedRepository, st *settings.Store) *Manager {
	return &Manager{
		transactions: tx,
		projected:    proj,
		settings:     st,
		log:          slog.Default().With("component", "statement"),
	}
}

// EndStatement closes the active period and opens next.
//
// Archival must fully succeed before the live transaction file is
// cleared; a failure in any earlier step aborts with no side effects.
// Once the live file has been cleared, later failures are reported but
// cannot roll the transition back.
func (m *Manager) EndStatement(ctx context.Context, next core.StatementPeriod) error {
	current, err := m.settings.ActiveStatementPeriod(ctx)
	if err != nil {
		if errors.Is(err, settings.ErrNotSet) {
			return ErrNoActivePeriod
		}
		return fmt.Errorf("resolve active period: %w", err)
	}

	txPath := m.transactions.Path()
	if txPath == "" {
		return ErrNoLiveFile
	}
	if err := m.transactions.EnsureReady(); err != nil {
		return fmt.Errorf("prepare transaction file: %w", err)
	}
	if err := m.projected.EnsureReady(); err != nil {
		return fmt.Errorf("prepare projections file: %w", err)
	}

	archiveDir := filepath.Join(filepath.Dir(txPath), current.String())
	if err := m.archive(ctx, archiveDir); err != nil {
		return fmt.Errorf("archive period %s: %w", current, err)
	}

	// Past this point the transition is destructive and one-way.
	if err := m.transactions.Clear(); err != nil {
		return fmt.Errorf("clear transaction file: %w", err)
	}
	if _, err := m.projected.PurgeStatementPeriod(current); err != nil {
		return fmt.Errorf("purge projections for %s (live file already cleared): %w", current, err)
	}
	if err := m.settings.SetActiveStatementPeriod(ctx, next); err != nil {
		return fmt.Errorf("advance active period (live file already cleared): %w", err)
	}

	m.log.InfoContext(ctx, "statement closed",
		"closed", current.String(),
		"next", next.String(),
		"archive", archiveDir)
	return nil
}

// archive copies the live transaction and projection files into the
// period folder and writes a payment summary snapshot alongside them.
func (m *Manager) archive(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}
	if err := copyFile(m.transactions.Path(), filepath.Join(dir, filepath.Base(m.transactions.Path()))); err != nil {
		return fmt.Errorf("copy transaction file: %w", err)
	}
	if err := copyFile(m.projected.Path(), filepath.Join(dir, filepath.Base(m.projected.Path()))); err != nil {
		return fmt.Errorf("copy projections file: %w", err)
	}

	recs, err := m.transactions.ReadAll()
	if err != nil {
		return fmt.Errorf("read transactions for summary: %w", err)
	}
	summary := core.SummarizePayments(recs, core.Filter{})
	if err := writePaymentSummary(filepath.Join(dir, "payment-summary.csv"), summary); err != nil {
		return fmt.Errorf("write payment summary: %w", err)
	}
	m.log.DebugContext(ctx, "archive written", "dir", dir, "transactions", len(recs))
	return nil
}

// writePaymentSummary renders per-card owner totals plus a grand total
// row as CSV.
func writePaymentSummary(path string, s core.PaymentSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"Card"}, s.Owners...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, card := range s.Cards {
		row := []string{card.Card}
		for _, o := range s.Owners {
			row = append(row, card.Totals[o].String())
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	total := []string{"Total"}
	for _, o := range s.Owners {
		total = append(total, s.GrandTotals[o].String())
	}
	if err := w.Write(total); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
