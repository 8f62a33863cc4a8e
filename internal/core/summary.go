package core

import (
	"errors"
	"sort"
	"time"
)

// CategoryRow is one line of a category summary. Actual and projected
// totals for the same category are parallel rows, never merged; Kind
// tells them apart.
type CategoryRow struct {
	Category string
	Kind     RecordKind
	Total    Amount
}

// CategorySummary is the per-category rollup for one owner.
type CategorySummary struct {
	Rows       []CategoryRow
	GrandTotal Amount
}

// SummarizeCategories rolls personalized transactions and the active
// period's projections up into per-category totals. Categories present
// on only one side still get their row; the grand total sums both
// sides.
func SummarizeCategories(transactions, projections []Record, account string, period StatementPeriod, f Filter) CategorySummary {
	actual := groupByCategory(Personalize(applyFilter(transactions, f), account))
	projected := groupByCategory(Personalize(applyFilter(FilterByPeriod(projections, period), f), account))

	names := make(map[string]struct{}, len(actual)+len(projected))
	for c := range actual {
		names[c] = struct{}{}
	}
	for c := range projected {
		names[c] = struct{}{}
	}
	ordered := make([]string, 0, len(names))
	for c := range names {
		ordered = append(ordered, c)
	}
	sort.Strings(ordered)

	var s CategorySummary
	for _, c := range ordered {
		if t, ok := actual[c]; ok {
			s.Rows = append(s.Rows, CategoryRow{Category: c, Kind: KindTransaction, Total: t})
			s.GrandTotal = s.GrandTotal.Add(t)
		}
		if t, ok := projected[c]; ok {
			s.Rows = append(s.Rows, CategoryRow{Category: c, Kind: KindProjected, Total: t})
			s.GrandTotal = s.GrandTotal.Add(t)
		}
	}
	return s
}

func groupByCategory(records []Record) map[string]Amount {
	out := make(map[string]Amount)
	for _, r := range records {
		c := r.CategoryOrDefault()
		out[c] = out[c].Add(r.Amount)
	}
	return out
}

// WeekBucket is one statement week. Weeks are fixed 7-day spans
// anchored to the first calendar day of the month containing the
// statement start; the last week is clipped to the statement end and
// may be shorter.
type WeekBucket struct {
	Index int
	Start time.Time
	End   time.Time
	Total Amount
	Count int
}

// WeeklySummary is the weekly rollup for one owner over one statement.
type WeeklySummary struct {
	Anchor   time.Time
	Weeks    []WeekBucket
	Excluded []Record
}

var ErrInvalidStatementRange = errors.New("statement end before start")

// SummarizeWeekly buckets an owner's personalized transactions into
// statement weeks. Input records outside [start, end] are collected in
// Excluded rather than failing the summary; callers log them. Joint
// records that already have a split counterpart in the input are
// suppressed first so nothing is double-counted.
func SummarizeWeekly(records []Record, account string, start, end time.Time, f Filter) (WeeklySummary, error) {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return WeeklySummary{}, ErrInvalidStatementRange
	}

	anchor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	s := WeeklySummary{Anchor: anchor}

	weeks := weekIndexOf(anchor, end)
	for i := 1; i <= weeks; i++ {
		ws := anchor.AddDate(0, 0, (i-1)*7)
		we := ws.AddDate(0, 0, 6)
		if we.After(end) {
			we = end
		}
		s.Weeks = append(s.Weeks, WeekBucket{Index: i, Start: ws, End: we})
	}

	personalized := PersonalizeAnnotated(SuppressSplitJoint(applyFilter(records, f)), account)
	for _, r := range personalized {
		d, err := r.Date()
		if err != nil {
			s.Excluded = append(s.Excluded, r)
			continue
		}
		d = truncateDay(d)
		if d.Before(start) || d.After(end) {
			s.Excluded = append(s.Excluded, r)
			continue
		}
		i := weekIndexOf(anchor, d) - 1
		s.Weeks[i].Total = s.Weeks[i].Total.Add(r.Amount)
		s.Weeks[i].Count++
	}
	return s, nil
}

// weekIndexOf returns the 1-based statement week containing d.
func weekIndexOf(anchor, d time.Time) int {
	days := int(d.Sub(anchor).Hours() / 24)
	return days/7 + 1
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CardPaymentSummary is the per-card breakdown: each individual
// owner's total is their direct spend on the card plus half the card's
// joint spend.
type CardPaymentSummary struct {
	Card   string
	Totals map[string]Amount
}

// PaymentSummary is the per-payment-method rollup across all owners.
type PaymentSummary struct {
	Owners      []string
	Cards       []CardPaymentSummary
	GrandTotals map[string]Amount
}

// SummarizePayments groups records by non-blank payment method and
// computes each owner's share per card. The joint spend on a card is
// summed first and halved once, so per-card owner totals follow
// direct + joint/2 exactly.
func SummarizePayments(records []Record, f Filter) PaymentSummary {
	records = applyFilter(records, f)

	ownerSet := make(map[string]struct{})
	for _, r := range records {
		if r.Account != JointAccount {
			ownerSet[r.Account] = struct{}{}
		}
	}
	owners := make([]string, 0, len(ownerSet))
	for o := range ownerSet {
		owners = append(owners, o)
	}
	sort.Strings(owners)

	type cardAcc struct {
		direct map[string]Amount
		joint  Amount
	}
	cards := make(map[string]*cardAcc)
	order := []string{}
	for _, r := range records {
		card := r.PaymentMethod
		if card == "" {
			continue
		}
		acc, ok := cards[card]
		if !ok {
			acc = &cardAcc{direct: make(map[string]Amount)}
			cards[card] = acc
			order = append(order, card)
		}
		if r.Account == JointAccount {
			acc.joint = acc.joint.Add(r.Amount)
		} else {
			acc.direct[r.Account] = acc.direct[r.Account].Add(r.Amount)
		}
	}
	sort.Strings(order)

	s := PaymentSummary{Owners: owners, GrandTotals: make(map[string]Amount)}
	for _, card := range order {
		acc := cards[card]
		half := acc.joint.Halve()
		row := CardPaymentSummary{Card: card, Totals: make(map[string]Amount, len(owners))}
		for _, o := range owners {
			t := acc.direct[o].Add(half)
			row.Totals[o] = t
			s.GrandTotals[o] = s.GrandTotals[o].Add(t)
		}
		s.Cards = append(s.Cards, row)
	}
	return s
}
