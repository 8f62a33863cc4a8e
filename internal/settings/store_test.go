package settings

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/joshuarreid/whatsMyBudget-sub000/internal/core"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetUnsetKey(t *testing.T) {
	s := newStore(t)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotSet) {
		t.Fatalf("expected ErrNotSet, got %v", err)
	}
}

func TestSetGetOverwrite(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, KeyTransactionFilePath, "/data/a.csv"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := s.Get(ctx, KeyTransactionFilePath); got != "/data/a.csv" {
		t.Fatalf("get = %q", got)
	}

	if err := s.Set(ctx, KeyTransactionFilePath, "/data/b.csv"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _ := s.Get(ctx, KeyTransactionFilePath); got != "/data/b.csv" {
		t.Fatalf("overwrite must replace the value, got %q", got)
	}
}

func TestAll(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	if err := s.Set(ctx, "a", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "b", "2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if all["a"] != "1" || all["b"] != "2" || len(all) != 2 {
		t.Fatalf("unexpected snapshot: %v", all)
	}
}

func TestActivePeriodRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if _, err := s.ActiveStatementPeriod(ctx); !errors.Is(err, ErrNotSet) {
		t.Fatalf("expected ErrNotSet before first set, got %v", err)
	}

	want := core.NewStatementPeriod(2025, time.August)
	if err := s.SetActiveStatementPeriod(ctx, want); err != nil {
		t.Fatalf("set period: %v", err)
	}
	got, err := s.ActiveStatementPeriod(ctx)
	if err != nil {
		t.Fatalf("get period: %v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("period = %s, want %s", got, want)
	}
}

func TestActivePeriodRejectsGarbage(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	if err := s.Set(ctx, KeyActiveStatementPeriod, "not-a-period"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := s.ActiveStatementPeriod(ctx); err == nil {
		t.Fatalf("expected parse error for a corrupt stored period")
	}
}

func TestRecentFiles(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for _, p := range []string{"/data/a.csv", "/data/b.csv", "/data/c.csv"} {
		if err := s.TouchRecentFile(ctx, RecentKindImport, p); err != nil {
			t.Fatalf("touch %s: %v", p, err)
		}
	}
	if err := s.TouchRecentFile(ctx, RecentKindTransactions, "/data/tx.csv"); err != nil {
		t.Fatalf("touch: %v", err)
	}

	got, err := s.RecentFiles(ctx, RecentKindImport, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("kinds must not mix, got %v", got)
	}

	limited, err := s.RecentFiles(ctx, RecentKindImport, 2)
	if err != nil {
		t.Fatalf("recent limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("limit must cap the list, got %v", limited)
	}
}

func TestTouchRecentFileIsIdempotentPerPath(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := s.TouchRecentFile(ctx, RecentKindImport, "/data/a.csv"); err != nil {
			t.Fatalf("touch: %v", err)
		}
	}
	got, err := s.RecentFiles(ctx, RecentKindImport, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("repeated touches must not duplicate entries, got %v", got)
	}
}
