// Package importer classifies rows of an external export file as new
// or duplicate against the transaction store and appends the new ones.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joshuarreid/whatsMyBudget-sub000/internal/core"
	"github.com/joshuarreid/whatsMyBudget-sub000/internal/csvstore"
	"github.com/joshuarreid/whatsMyBudget-sub000/internal/repository"
)

// requiredColumns must all be present in the import file's header,
// matched case-insensitively. Extra columns are ignored.
var requiredColumns = []string{
	"name",
	"amount",
	"category",
	"criticality",
	"transaction date",
	"account",
	"status",
	"created time",
	"payment method",
}

// Report is the user-facing outcome of one import batch.
type Report struct {
	Detected       int
	Imported       int
	Duplicates     int
	Errors         int
	DuplicateLines []string
	ErrorLines     []string
}

// Engine runs import batches against one transaction repository.
type Engine struct {
	repo *repository.TransactionRepository
	log  *slog.Logger
}

// New returns an Engine bound to the given repository.
func New(repo *repository.TransactionRepository) *Engine {
	return &Engine{
		repo: repo,
		log:  slog.Default().With("component", "importer"),
	}
}

// ImportFile parses the export file at path and appends every
// non-duplicate row to the repository. Per-row failures are counted
// and reported, never fatal to the rest of the batch; only a missing
// required column or an unreadable file aborts before any row is
// touched.
func (e *Engine) ImportFile(ctx context.Context, path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()
	return e.Import(ctx, f)
}

// Import is ImportFile over an arbitrary reader.
func (e *Engine) Import(ctx context.Context, src io.Reader) (*Report, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("import file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read import header: %w", err)
	}
	if len(header) > 0 {
		header[0] = csvstore.StripBOM(header[0])
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	existing, err := e.repo.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read existing transactions: %w", err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, rec := range existing {
		seen[KeyForRecord(rec)] = struct{}{}
	}

	report := &Report{}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// The raw line is not recoverable from the reader once it
			// rejects a row, so the parser message stands in for it.
			report.Errors++
			report.ErrorLines = append(report.ErrorLines, err.Error())
			continue
		}
		report.Detected++

		get := func(name string) string {
			i := cols[name]
			if i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}

		amount, err := core.ParseAmount(get("amount"))
		if err != nil {
			e.log.WarnContext(ctx, "rejecting row with malformed amount",
				"name", get("name"), "amount", get("amount"))
			report.Errors++
			report.ErrorLines = append(report.ErrorLines, strings.Join(row, ","))
			continue
		}
		date := get("transaction date")
		if date != "" {
			d, err := core.ParseDate(date)
			if err != nil {
				e.log.WarnContext(ctx, "rejecting row with malformed date",
					"name", get("name"), "date", date)
				report.Errors++
				report.ErrorLines = append(report.ErrorLines, strings.Join(row, ","))
				continue
			}
			date = d.Format(core.DateLayout)
		}

		key := DedupKey(keyFields{
			Name:            get("name"),
			Amount:          get("amount"),
			Category:        get("category"),
			Criticality:     get("criticality"),
			TransactionDate: get("transaction date"),
			Account:         get("account"),
			Status:          get("status"),
			CreatedTime:     get("created time"),
		})
		if _, dup := seen[key]; dup {
			report.Duplicates++
			report.DuplicateLines = append(report.DuplicateLines, strings.Join(row, ","))
			continue
		}

		rec := core.Record{
			Kind:            core.KindTransaction,
			Name:            get("name"),
			Amount:          amount,
			Category:        get("category"),
			Criticality:     get("criticality"),
			TransactionDate: date,
			Account:         get("account"),
			Status:          get("status"),
			CreatedTime:     get("created time"),
			PaymentMethod:   get("payment method"),
		}
		if err := e.repo.AddRaw(rec); err != nil {
			e.log.ErrorContext(ctx, "failed to store imported row", "error", err, "name", rec.Name)
			report.Errors++
			report.ErrorLines = append(report.ErrorLines, strings.Join(row, ","))
			continue
		}
		seen[key] = struct{}{}
		report.Imported++
	}

	e.log.InfoContext(ctx, "import finished",
		"detected", report.Detected,
		"imported", report.Imported,
		"duplicates", report.Duplicates,
		"errors", report.Errors)
	return report, nil
}

// mapColumns resolves the required column set against the header,
// case-insensitively. Missing any required column is a hard validation
// failure before any row is processed.
func mapColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	cols := make(map[string]int, len(requiredColumns))
	var missing []string
	for _, want := range requiredColumns {
		i, ok := index[want]
		if !ok {
			missing = append(missing, want)
			continue
		}
		cols[want] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("import file is missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}
