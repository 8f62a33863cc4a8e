package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/joshuarreid/whatsMyBudget-sub000/internal/repository"
	"github.com/joshuarreid/whatsMyBudget-sub000/internal/settings"
)

// LatestObject is the stable object name holding the newest snapshot;
// every backup also writes an immutable per-snapshot object next to it.
const LatestObject = "snapshots/latest.json"

// Service performs whole-state backup and restore. A backup is
// all-or-nothing: either both objects land or the call fails. Restore
// validates the payload before anything local is written, so local
// files are never touched on a bad snapshot.
type Service struct {
	store        ObjectStore
	transactions *repository.TransactionRepository
	projected    *repository.ProjectedRepository
	settings     *settings.Store
	log          *slog.Logger
}

// NewService wires a backup service.
func NewService(store ObjectStore, tx *repository.TransactionRepository, proj *repository.ProjectedRepository, st *settings.Store) *Service {
	return &Service{
		store:        store,
		transactions: tx,
		projected:    proj,
		settings:     st,
		log:          slog.Default().With("component", "backup"),
	}
}

// Backup snapshots the full local state and uploads it. Returns the
// immutable object name of the uploaded snapshot.
func (s *Service) Backup(ctx context.Context) (string, error) {
	tx, err := s.transactions.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read transactions: %w", err)
	}
	proj, err := s.projected.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read projections: %w", err)
	}
	set, err := s.settings.All(ctx)
	if err != nil {
		return "", fmt.Errorf("read settings: %w", err)
	}

	snap, err := NewSnapshot(tx, proj, set)
	if err != nil {
		return "", fmt.Errorf("build snapshot: %w", err)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	object := fmt.Sprintf("snapshots/%s-%s.json", snap.CreatedAt.Format("20060102T150405Z"), snap.ID)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.store.Upload(gctx, object, data) })
	g.Go(func() error { return s.store.Upload(gctx, LatestObject, data) })
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	s.log.InfoContext(ctx, "backup uploaded",
		"object", object,
		"transactions", len(tx),
		"projections", len(proj))
	return object, nil
}

// Restore downloads the named snapshot (or the latest when name is
// empty), verifies its checksums and applies it. Record contents
// replace the local stores wholesale; settings are applied except for
// the local file-path keys, which a snapshot must never override.
func (s *Service) Restore(ctx context.Context, name string) error {
	if name == "" {
		name = LatestObject
	}
	data, err := s.store.Download(ctx, name)
	if err != nil {
		return fmt.Errorf("download snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if err := snap.Verify(); err != nil {
		return fmt.Errorf("verify snapshot %s: %w", snap.ID, err)
	}

	if err := s.transactions.OverwriteAll(snap.Transactions); err != nil {
		return fmt.Errorf("apply transactions: %w", err)
	}
	if err := s.projected.OverwriteAll(snap.Projected); err != nil {
		return fmt.Errorf("apply projections: %w", err)
	}
	for k, v := range snap.Settings {
		if isPathSetting(k) {
			continue
		}
		if err := s.settings.Set(ctx, k, v); err != nil {
			return fmt.Errorf("apply setting %s: %w", k, err)
		}
	}

	s.log.InfoContext(ctx, "snapshot restored",
		"object", name,
		"snapshot", snap.ID,
		"transactions", len(snap.Transactions),
		"projections", len(snap.Projected))
	return nil
}

// isPathSetting reports whether a settings key points at local files.
// Restoring a snapshot taken on another machine must not redirect this
// machine's file locations.
func isPathSetting(key string) bool {
	return key == settings.KeyTransactionFilePath || key == settings.KeyProjectedFilePath
}
