package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/joshuarreid/whatsMyBudget-sub000/internal/core"
)

func newTransactionRepo(t *testing.T) *TransactionRepository {
	t.Helper()
	return NewTransactionRepository(filepath.Join(t.TempDir(), "transactions.csv"))
}

func newProjectedRepo(t *testing.T) *ProjectedRepository {
	t.Helper()
	return NewProjectedRepository(filepath.Join(t.TempDir(), "projected.csv"))
}

func transaction(name, amount, account string) core.Record {
	return core.Record{
		Kind:            core.KindTransaction,
		Name:            name,
		Amount:          core.AmountOrZero(amount),
		Category:        "misc",
		Criticality:     core.NonEssential,
		TransactionDate: "2025-08-04",
		Account:         account,
		CreatedTime:     "August 4, 2025 9:00 AM",
		PaymentMethod:   "Amex",
	}
}

func projection(name, amount, period string) core.Record {
	return core.Record{
		Kind:            core.KindProjected,
		Name:            name,
		Amount:          core.AmountOrZero(amount),
		Category:        "misc",
		Criticality:     core.NonEssential,
		Account:         "Josh",
		CreatedTime:     "August 4, 2025 9:00 AM",
		StatementPeriod: period,
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTransactionRepo(t)
	want := []core.Record{
		transaction("Coffee", "$5.00", "Josh"),
		transaction("Rent", "$950.00", "Joint"),
	}
	for _, rec := range want {
		if err := repo.Add(rec); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	got, err := repo.ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	for i := range want {
		if got[i].Name != want[i].Name || !got[i].Amount.Equal(want[i].Amount) ||
			got[i].Account != want[i].Account || got[i].TransactionDate != want[i].TransactionDate {
			t.Fatalf("record %d mismatch: %+v vs %+v", i, got[i], want[i])
		}
		if got[i].Kind != core.KindTransaction {
			t.Fatalf("record %d must be stamped as a transaction", i)
		}
	}
}

func TestTransactionAddValidates(t *testing.T) {
	repo := newTransactionRepo(t)
	bad := transaction("", "$5.00", "Josh")
	if err := repo.Add(bad); err == nil {
		t.Fatalf("expected validation error for empty name")
	}
	recs, _ := repo.ReadAll()
	if len(recs) != 0 {
		t.Fatalf("invalid record must not be stored")
	}
}

func TestTransactionClear(t *testing.T) {
	repo := newTransactionRepo(t)
	if err := repo.Add(transaction("Coffee", "$5.00", "Josh")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	recs, err := repo.ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected header-only store after clear, got %v", recs)
	}
}

func TestProjectedAddRequiresPeriod(t *testing.T) {
	repo := newProjectedRepo(t)
	bad := projection("Concert", "$60.00", "")
	if err := repo.Add(bad); err == nil {
		t.Fatalf("expected error for missing statement period")
	}
}

func TestProjectedUpdateMatchingUsesCompositeKey(t *testing.T) {
	repo := newProjectedRepo(t)
	// Two projections share a name; only the composite key tells them
	// apart.
	a := projection("Concert", "$60.00", "AUGUST2025")
	b := projection("Concert", "$60.00", "SEPTEMBER2025")
	if err := repo.Add(a); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if err := repo.Add(b); err != nil {
		t.Fatalf("add b: %v", err)
	}

	updated := b
	updated.Amount = core.AmountOrZero("$75.00")
	found, err := repo.UpdateMatching(b, updated)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !found {
		t.Fatalf("expected a composite-key match")
	}

	recs, _ := repo.ReadAll()
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	for _, rec := range recs {
		switch rec.StatementPeriod {
		case "AUGUST2025":
			if !rec.Amount.Equal(core.AmountOrZero("$60.00")) {
				t.Fatalf("august projection must be untouched, got %s", rec.Amount)
			}
		case "SEPTEMBER2025":
			if !rec.Amount.Equal(core.AmountOrZero("$75.00")) {
				t.Fatalf("september projection must be updated, got %s", rec.Amount)
			}
		}
	}
}

func TestProjectedUpdateMatchingNoMatch(t *testing.T) {
	repo := newProjectedRepo(t)
	if err := repo.Add(projection("Concert", "$60.00", "AUGUST2025")); err != nil {
		t.Fatalf("add: %v", err)
	}
	ghost := projection("Ghost", "$1.00", "AUGUST2025")
	found, err := repo.UpdateMatching(ghost, ghost)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if found {
		t.Fatalf("expected no match")
	}
}

func TestProjectedDeleteMatching(t *testing.T) {
	repo := newProjectedRepo(t)
	a := projection("Concert", "$60.00", "AUGUST2025")
	b := projection("Flight", "$300.00", "AUGUST2025")
	if err := repo.Add(a); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if err := repo.Add(b); err != nil {
		t.Fatalf("add b: %v", err)
	}

	removed, err := repo.DeleteMatching(a)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !removed {
		t.Fatalf("expected removal")
	}
	recs, _ := repo.ReadAll()
	if len(recs) != 1 || recs[0].Name != "Flight" {
		t.Fatalf("only the matched projection may be removed, got %v", recs)
	}
}

func TestPurgeStatementPeriod(t *testing.T) {
	repo := newProjectedRepo(t)
	if err := repo.Add(projection("Concert", "$60.00", "AUGUST2025")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.Add(projection("Flight", "$300.00", "SEPTEMBER2025")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.Add(projection("Hotel", "$200.00", "AUGUST2025")); err != nil {
		t.Fatalf("add: %v", err)
	}

	removed, err := repo.PurgeStatementPeriod(core.NewStatementPeriod(2025, time.August))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if !removed {
		t.Fatalf("expected projections to be purged")
	}
	recs, _ := repo.ReadAll()
	if len(recs) != 1 || recs[0].StatementPeriod != "SEPTEMBER2025" {
		t.Fatalf("purge must remove every projection of the period, got %v", recs)
	}
}
