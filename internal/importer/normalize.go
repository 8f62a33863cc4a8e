package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/joshuarreid/whatsMyBudget-sub000/internal/core"
)

const keySep = "|"

// keyFields is the slice of a row that participates in the dedup key,
// in hashing order. Payment method and statement period are absent on
// purpose: their slots are hashed as empty strings so those fields
// never affect duplicate detection. Two otherwise-identical rows on
// different cards therefore collide.
type keyFields struct {
	Name            string
	Amount          string
	Category        string
	Criticality     string
	TransactionDate string
	Account         string
	Status          string
	CreatedTime     string
}

// DedupKey computes the normalized SHA-256 identity of a row. Source
// rows have no primary key, so identity is a canonical projection of
// the user-visible fields: case and surrounding whitespace are erased,
// amounts lose their currency symbol and separators, and dates are
// folded to ISO form whichever accepted format they arrived in.
func DedupKey(f keyFields) string {
	parts := []string{
		normalizeText(f.Name),
		normalizeAmount(f.Amount),
		normalizeText(f.Category),
		normalizeText(f.Criticality),
		normalizeDate(f.TransactionDate),
		normalizeText(f.Account),
		normalizeText(f.Status),
		normalizeText(f.CreatedTime),
		"", // payment method slot, fixed empty
		"", // statement period slot, fixed empty
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, keySep)))
	return hex.EncodeToString(sum[:])
}

// KeyForRecord computes the dedup key of a stored record.
func KeyForRecord(r core.Record) string {
	return DedupKey(keyFields{
		Name:            r.Name,
		Amount:          r.Amount.String(),
		Category:        r.Category,
		Criticality:     r.Criticality,
		TransactionDate: r.TransactionDate,
		Account:         r.Account,
		Status:          r.Status,
		CreatedTime:     r.CreatedTime,
	})
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeAmount folds "$1,200.00", "1200.0" and "1200" to "1200.00".
// Unparseable amounts fall back to the lower-cased trimmed raw string.
func normalizeAmount(s string) string {
	a, err := core.ParseAmount(s)
	if err != nil {
		return normalizeText(s)
	}
	return a.Fixed()
}

// normalizeDate folds any accepted date format to ISO form, falling
// back to the lower-cased trimmed raw string when none parses.
func normalizeDate(s string) string {
	t, err := core.ParseDate(s)
	if err != nil {
		return normalizeText(s)
	}
	return t.Format(core.DateLayout)
}
