package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// StatementPeriod is the month-scoped budgeting cycle, keyed by its
// canonical string form MONTHNAME+year, e.g. "SEPTEMBER2025". Exactly
// one period is active at a time; the active pointer lives in the
// settings store.
type StatementPeriod time.Time

var ErrInvalidStatementPeriod = errors.New("invalid statement period")

// NewStatementPeriod returns the period for the given year and month.
func NewStatementPeriod(year int, month time.Month) StatementPeriod {
	return StatementPeriod(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// PeriodOf returns the statement period containing t.
func PeriodOf(t time.Time) StatementPeriod {
	return NewStatementPeriod(t.Year(), t.Month())
}

// ParseStatementPeriod parses the canonical MONTHNAME+year form.
// Matching is case-insensitive; "August2025" and "AUGUST2025" are the
// same period.
func ParseStatementPeriod(s string) (StatementPeriod, error) {
	s = strings.TrimSpace(s)
	if len(s) < 5 {
		return StatementPeriod{}, ErrInvalidStatementPeriod
	}
	name := s[:len(s)-4]
	year := s[len(s)-4:]
	t, err := time.Parse("January2006", properMonth(name)+year)
	if err != nil {
		return StatementPeriod{}, ErrInvalidStatementPeriod
	}
	return PeriodOf(t), nil
}

func properMonth(name string) string {
	name = strings.ToLower(name)
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// String returns the canonical form, e.g. "SEPTEMBER2025".
func (p StatementPeriod) String() string {
	t := time.Time(p)
	return fmt.Sprintf("%s%04d", strings.ToUpper(t.Month().String()), t.Year())
}

// Month returns the period's month.
func (p StatementPeriod) Month() time.Month { return time.Time(p).Month() }

// Year returns the period's year.
func (p StatementPeriod) Year() int { return time.Time(p).Year() }

// Next returns the following calendar month's period.
func (p StatementPeriod) Next() StatementPeriod {
	return StatementPeriod(time.Time(p).AddDate(0, 1, 0))
}

// IsZero reports whether p is the zero value.
func (p StatementPeriod) IsZero() bool { return time.Time(p).IsZero() }

// Equal reports whether p and q are the same period.
func (p StatementPeriod) Equal(q StatementPeriod) bool {
	return time.Time(p).Equal(time.Time(q))
}

// Contains reports whether t falls inside the period's month.
func (p StatementPeriod) Contains(t time.Time) bool {
	m := time.Time(p)
	return t.Year() == m.Year() && t.Month() == m.Month()
}

// FilterByPeriod returns the records tagged with the given period.
// Projections from other periods must never leak into a summary; every
// aggregation entry point funnels projections through this.
func FilterByPeriod(records []Record, period StatementPeriod) []Record {
	want := period.String()
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if strings.EqualFold(strings.TrimSpace(r.StatementPeriod), want) {
			out = append(out, r)
		}
	}
	return out
}
