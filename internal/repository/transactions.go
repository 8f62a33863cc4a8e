package repository

import (
	"fmt"

	"github.com/joshuarreid/whatsMyBudget-sub000/internal/core"
	"github.com/joshuarreid/whatsMyBudget-sub000/internal/csvstore"
)

// TransactionRepository stores the real transactions for the active
// statement. Records returned to callers are copies; mutating them
// never touches storage until an explicit Add, Update or OverwriteAll.
type TransactionRepository struct {
	store *csvstore.Store[core.Record]
}

// NewTransactionRepository binds a repository to its CSV file.
func NewTransactionRepository(path string) *TransactionRepository {
	return &TransactionRepository{
		store: csvstore.New(path, recordCodec{kind: core.KindTransaction}),
	}
}

// Path returns the backing file path.
func (r *TransactionRepository) Path() string { return r.store.Path() }

// Headers returns the store's column list.
func (r *TransactionRepository) Headers() []string { return r.store.Headers() }

// EnsureReady creates or repairs the backing file.
func (r *TransactionRepository) EnsureReady() error { return r.store.EnsureReady() }

// ReadAll returns every stored transaction.
func (r *TransactionRepository) ReadAll() ([]core.Record, error) {
	return r.store.ReadAll()
}

// Add validates and appends one transaction.
func (r *TransactionRepository) Add(rec core.Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}
	return r.store.Add(rec)
}

// AddRaw appends without validation. The importer uses this so rows
// that already passed its own checks are stored verbatim.
func (r *TransactionRepository) AddRaw(rec core.Record) error {
	return r.store.Add(rec)
}

// Update replaces the first transaction whose matchField equals
// matchValue.
func (r *TransactionRepository) Update(matchField, matchValue string, rec core.Record) (bool, error) {
	return r.store.Update(matchField, matchValue, rec)
}

// Delete removes all transactions whose matchField equals matchValue.
func (r *TransactionRepository) Delete(matchField, matchValue string) (bool, error) {
	return r.store.Delete(matchField, matchValue)
}

// OverwriteAll replaces the whole store.
func (r *TransactionRepository) OverwriteAll(recs []core.Record) error {
	return r.store.OverwriteAll(recs)
}

// Clear leaves the file header-only. Statement rollover uses this once
// the outgoing period has been archived.
func (r *TransactionRepository) Clear() error {
	return r.store.OverwriteAll(nil)
}
