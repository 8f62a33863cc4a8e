// Package core holds the domain model: monetary amounts, transaction
// records, statement periods and the joint-split aggregation logic.
//
// This file contains the Amount value type. Amounts are fixed-point
// decimals with cents precision; the canonical display form is always
// "$" followed by a two-decimal number.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Amount is a monetary value with cents precision.
// The zero value is $0.00 and is safe to use.
type Amount struct {
	dec decimal.Decimal
}

// ParseAmount parses a currency string into an Amount.
//
// Currency symbols and thousands separators are accepted and stripped,
// so "$1,200.00", "1200.0" and "1200" all parse to the same value.
// Values are rounded to two decimal places. Returns ErrInvalidAmount
// for anything that is not a number after stripping.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return Amount{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{dec: d.Round(2)}, nil
}

// AmountOrZero parses like ParseAmount but maps failures to $0.00.
// Display paths use this; input paths must call ParseAmount and
// surface the error.
func AmountOrZero(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		return Amount{}
	}
	return a
}

// NewAmountFromCents builds an Amount from an integer number of cents.
func NewAmountFromCents(cents int64) Amount {
	return Amount{dec: decimal.New(cents, -2)}
}

// Add returns a+b.
func (a Amount) Add(b Amount) Amount {
	return Amount{dec: a.dec.Add(b.dec)}
}

// Halve returns a/2 rounded to two decimal places. Used when a Joint
// transaction is split between the two owners.
func (a Amount) Halve() Amount {
	return Amount{dec: a.dec.DivRound(two, 2)}
}

// Equal reports whether two amounts represent the same value.
func (a Amount) Equal(b Amount) bool {
	return a.dec.Equal(b.dec)
}

// Cmp compares a and b and returns -1, 0 or 1.
func (a Amount) Cmp(b Amount) int {
	return a.dec.Cmp(b.dec)
}

// IsZero reports whether the amount is $0.00.
func (a Amount) IsZero() bool {
	return a.dec.IsZero()
}

// String returns the canonical form, "$" followed by two decimals.
func (a Amount) String() string {
	return "$" + a.dec.StringFixed(2)
}

// Fixed returns the bare two-decimal number without the currency
// symbol, e.g. "28.36". The import dedup key normalizes amounts to
// this form.
func (a Amount) Fixed() string {
	return a.dec.StringFixed(2)
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return a.dec.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.dec.UnmarshalJSON(data)
}
