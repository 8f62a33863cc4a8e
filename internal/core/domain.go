package core

import (
	"errors"
	"strings"
	"time"
)

// RecordKind discriminates real transactions from projected ones.
type RecordKind string

const (
	KindTransaction RecordKind = "transaction"
	KindProjected   RecordKind = "projected"
)

// Criticality values. Stored as strings so unknown values coming from
// an imported file round-trip untouched.
const (
	Essential    = "Essential"
	NonEssential = "NonEssential"
)

// JointAccount is the shared pseudo-owner. Records on this account are
// split 50/50 between the individual owners during personalization.
const JointAccount = "Joint"

// Uncategorized is the bucket used when a record has no category.
const Uncategorized = "(Uncategorized)"

var (
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidDate            = errors.New("invalid date")
	ErrEmptyName              = errors.New("empty name")
	ErrEmptyAccount           = errors.New("empty account")
	ErrMissingStatementPeriod = errors.New("missing statement period")
)

// DateLayout is the canonical on-disk date form.
const DateLayout = "2006-01-02"

// CreatedTimeLayout matches the created-time strings produced by the
// spreadsheet exports this tool imports, e.g. "August 22, 2025 12:17 PM".
const CreatedTimeLayout = "January 2, 2006 3:04 PM"

// dateLayouts are the accepted input forms, tried in order.
var dateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	DateLayout,
	"1/2/2006",
}

// ParseDate parses a date in any of the accepted input forms.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// Record is one expense, real or projected. Records have no primary
// key; identity is only ever derived from field values (see
// CompositeKey and the importer's dedup key).
type Record struct {
	Kind            RecordKind `json:"kind"`
	Name            string     `json:"name"`
	Amount          Amount     `json:"amount"`
	Category        string     `json:"category"`
	Criticality     string     `json:"criticality"`
	TransactionDate string     `json:"transactionDate"`
	Account         string     `json:"account"`
	Status          string     `json:"status"`
	CreatedTime     string     `json:"createdTime"`
	PaymentMethod   string     `json:"paymentMethod"`
	StatementPeriod string     `json:"statementPeriod,omitempty"`
}

// Validate checks the invariants for manual entry. CSV reads are
// deliberately tolerant and do not call this.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(r.Account) == "" {
		return ErrEmptyAccount
	}
	if r.Kind == KindProjected && strings.TrimSpace(r.StatementPeriod) == "" {
		return ErrMissingStatementPeriod
	}
	if strings.TrimSpace(r.TransactionDate) != "" {
		if _, err := ParseDate(r.TransactionDate); err != nil {
			return ErrInvalidDate
		}
	}
	return nil
}

// Date parses the record's transaction date.
func (r Record) Date() (time.Time, error) {
	return ParseDate(r.TransactionDate)
}

// CategoryOrDefault returns the record's category, or the
// Uncategorized sentinel when it is blank.
func (r Record) CategoryOrDefault() string {
	if strings.TrimSpace(r.Category) == "" {
		return Uncategorized
	}
	return r.Category
}

const compositeKeySep = "||"

// CompositeKey derives a match key for records that share single field
// values. It joins name, amount, category, criticality, account,
// created time and statement period. Projections are updated and
// deleted through this key so that a match is never broader than one
// logical record.
func (r Record) CompositeKey() string {
	return strings.Join([]string{
		r.Name,
		r.Amount.String(),
		r.Category,
		r.Criticality,
		r.Account,
		r.CreatedTime,
		r.StatementPeriod,
	}, compositeKeySep)
}

// Filter narrows a record set for aggregation. Zero fields match
// everything.
type Filter struct {
	Category      string
	Criticality   string
	PaymentMethod string
}

// Matches reports whether the record passes the filter.
func (f Filter) Matches(r Record) bool {
	if f.Category != "" && !strings.EqualFold(r.CategoryOrDefault(), f.Category) {
		return false
	}
	if f.Criticality != "" && !strings.EqualFold(r.Criticality, f.Criticality) {
		return false
	}
	if f.PaymentMethod != "" && !strings.EqualFold(r.PaymentMethod, f.PaymentMethod) {
		return false
	}
	return true
}

func applyFilter(records []Record, f Filter) []Record {
	if f == (Filter{}) {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
