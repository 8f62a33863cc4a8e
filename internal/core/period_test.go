package core

import (
	"testing"
	"time"
)

func TestParseStatementPeriod(t *testing.T) {
	cases := []struct {
		in   string
		out  string
		ok   bool
	}{
		{"SEPTEMBER2025", "SEPTEMBER2025", true},
		{"August2025", "AUGUST2025", true},
		{"august2025", "AUGUST2025", true},
		{" MAY2024 ", "MAY2024", true},
		{"2025SEPTEMBER", "", false},
		{"SEPTEMBER", "", false},
		{"", "", false},
		{"NOTAMONTH2025", "", false},
	}
	for _, tc := range cases {
		p, err := ParseStatementPeriod(tc.in)
		if tc.ok {
			if err != nil || p.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, p, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestStatementPeriodRoundTrip(t *testing.T) {
	p := NewStatementPeriod(2025, time.September)
	back, err := ParseStatementPeriod(p.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Equal(back) {
		t.Fatalf("round trip mismatch: %s vs %s", p, back)
	}
	if p.Month() != time.September || p.Year() != 2025 {
		t.Fatalf("unexpected components: %v %d", p.Month(), p.Year())
	}
}

func TestStatementPeriodNext(t *testing.T) {
	p := NewStatementPeriod(2025, time.December)
	n := p.Next()
	if n.String() != "JANUARY2026" {
		t.Fatalf("expected JANUARY2026, got %s", n)
	}
}

func TestStatementPeriodContains(t *testing.T) {
	p := NewStatementPeriod(2025, time.August)
	if !p.Contains(time.Date(2025, time.August, 31, 23, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected August 31 to be contained")
	}
	if p.Contains(time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected September 1 to be outside")
	}
}

func TestFilterByPeriod(t *testing.T) {
	records := []Record{
		{Name: "a", StatementPeriod: "AUGUST2025"},
		{Name: "b", StatementPeriod: "SEPTEMBER2025"},
		{Name: "c", StatementPeriod: "august2025"},
		{Name: "d", StatementPeriod: ""},
	}
	got := FilterByPeriod(records, NewStatementPeriod(2025, time.August))
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" {
		t.Fatalf("expected [a c], got %v", got)
	}
}
