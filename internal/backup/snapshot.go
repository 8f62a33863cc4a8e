// Package backup serializes the full local state into a snapshot
// document and moves it to and from an object-storage bucket.
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joshuarreid/whatsMyBudget-sub000/internal/core"
)

// Checksums carries one SHA-256 digest per snapshot section so a
// corrupted or tampered payload is rejected before it touches local
// files.
type Checksums struct {
	Transactions string `json:"transactions"`
	Projected    string `json:"projected"`
	Settings     string `json:"settings"`
}

// Snapshot is the structured backup document: the full transaction and
// projection lists plus a settings snapshot.
type Snapshot struct {
	ID           string            `json:"id"`
	CreatedAt    time.Time         `json:"createdAt"`
	Transactions []core.Record     `json:"transactions"`
	Projected    []core.Record     `json:"projected"`
	Settings     map[string]string `json:"settings"`
	Checksums    Checksums         `json:"checksums"`
}

var ErrChecksumMismatch = errors.New("snapshot checksum mismatch")

// NewSnapshot builds a snapshot with fresh checksums and a unique id.
func NewSnapshot(transactions, projected []core.Record, settings map[string]string) (*Snapshot, error) {
	s := &Snapshot{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		Transactions: transactions,
		Projected:    projected,
		Settings:     settings,
	}
	sums, err := s.computeChecksums()
	if err != nil {
		return nil, err
	}
	s.Checksums = sums
	return s, nil
}

// Verify recomputes the section digests and compares them against the
// stored ones.
func (s *Snapshot) Verify() error {
	sums, err := s.computeChecksums()
	if err != nil {
		return err
	}
	if sums != s.Checksums {
		return ErrChecksumMismatch
	}
	return nil
}

func (s *Snapshot) computeChecksums() (Checksums, error) {
	tx, err := sectionHash(s.Transactions)
	if err != nil {
		return Checksums{}, fmt.Errorf("hash transactions: %w", err)
	}
	proj, err := sectionHash(s.Projected)
	if err != nil {
		return Checksums{}, fmt.Errorf("hash projections: %w", err)
	}
	set, err := sectionHash(s.Settings)
	if err != nil {
		return Checksums{}, fmt.Errorf("hash settings: %w", err)
	}
	return Checksums{Transactions: tx, Projected: proj, Settings: set}, nil
}

func sectionHash(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
