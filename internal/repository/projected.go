package repository

import (
	"fmt"

	"github.com/joshuarreid/whatsMyBudget-sub000/internal/core"
	"github.com/joshuarreid/whatsMyBudget-sub000/internal/csvstore"
)

// ProjectedRepository stores planned expenses. Every projected record
// is tagged with the statement period it belongs to; update and delete
// go through the composite key so that projections sharing a name or
// amount never match each other by accident.
type ProjectedRepository struct {
	store *csvstore.Store[core.Record]
}

// NewProjectedRepository binds a repository to its CSV file.
func NewProjectedRepository(path string) *ProjectedRepository {
	return &ProjectedRepository{
		store: csvstore.New(path, recordCodec{kind: core.KindProjected}),
	}
}

// Path returns the backing file path.
func (r *ProjectedRepository) Path() string { return r.store.Path() }

// EnsureReady creates or repairs the backing file.
func (r *ProjectedRepository) EnsureReady() error { return r.store.EnsureReady() }

// ReadAll returns every stored projection.
func (r *ProjectedRepository) ReadAll() ([]core.Record, error) {
	return r.store.ReadAll()
}

// Add validates and appends one projection. The statement period is
// mandatory for projected records.
func (r *ProjectedRepository) Add(rec core.Record) error {
	rec.Kind = core.KindProjected
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validate projection: %w", err)
	}
	return r.store.Add(rec)
}

// UpdateMatching replaces the first stored projection whose composite
// key equals target's with updated, reporting whether a match existed.
func (r *ProjectedRepository) UpdateMatching(target, updated core.Record) (bool, error) {
	recs, err := r.store.ReadAll()
	if err != nil {
		return false, err
	}
	key := target.CompositeKey()
	for i, rec := range recs {
		if rec.CompositeKey() == key {
			updated.Kind = core.KindProjected
			recs[i] = updated
			if err := r.store.OverwriteAll(recs); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// DeleteMatching removes every stored projection whose composite key
// equals target's, reporting whether any row was removed.
func (r *ProjectedRepository) DeleteMatching(target core.Record) (bool, error) {
	recs, err := r.store.ReadAll()
	if err != nil {
		return false, err
	}
	key := target.CompositeKey()
	kept := recs[:0]
	removed := 0
	for _, rec := range recs {
		if rec.CompositeKey() == key {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	if removed == 0 {
		return false, nil
	}
	if err := r.store.OverwriteAll(kept); err != nil {
		return false, err
	}
	return true, nil
}

// PurgeStatementPeriod removes every projection tagged with the given
// period. Statement rollover calls this for the period being closed.
func (r *ProjectedRepository) PurgeStatementPeriod(period core.StatementPeriod) (bool, error) {
	return r.store.Delete(ColStatementPeriod, period.String())
}

// OverwriteAll replaces the whole store.
func (r *ProjectedRepository) OverwriteAll(recs []core.Record) error {
	return r.store.OverwriteAll(recs)
}
