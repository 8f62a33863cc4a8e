package core

import "strings"

// SplitSuffix marks the synthesized half of a Joint record so a
// payment breakdown can tell it apart from a genuinely individual
// entry with the same name.
const SplitSuffix = " (Split)"

// Personalize produces the owner's effective view of a record set:
// their own records unchanged, plus a half-value copy of every Joint
// record with the account rewritten to the owner. Records belonging to
// other owners are dropped. The copies exist only for aggregation and
// display and are never written back to storage.
func Personalize(records []Record, account string) []Record {
	return personalize(records, account, false)
}

// PersonalizeAnnotated is Personalize with the split copies' names
// tagged with SplitSuffix. Payment breakdowns use this form.
func PersonalizeAnnotated(records []Record, account string) []Record {
	return personalize(records, account, true)
}

func personalize(records []Record, account string, annotate bool) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		switch r.Account {
		case account:
			out = append(out, r)
		case JointAccount:
			c := r
			c.Amount = r.Amount.Halve()
			c.Account = account
			if annotate {
				c.Name = r.Name + SplitSuffix
			}
			out = append(out, c)
		}
	}
	return out
}

// StripSplitSuffix removes the split marker from a name, if present.
func StripSplitSuffix(name string) string {
	return strings.TrimSuffix(name, SplitSuffix)
}

// IsSplit reports whether a name carries the split marker.
func IsSplit(name string) bool {
	return strings.HasSuffix(name, SplitSuffix)
}

// SuppressSplitJoint drops un-split Joint records whose split
// counterpart is already present in the working set, matched by date,
// category and name with the split marker stripped. Without this a
// weekly breakdown fed a mixed list would count the same underlying
// transaction twice.
func SuppressSplitJoint(records []Record) []Record {
	seen := make(map[string]struct{})
	for _, r := range records {
		if r.Account != JointAccount && IsSplit(r.Name) {
			seen[suppressKey(r.TransactionDate, r.Category, StripSplitSuffix(r.Name))] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Account == JointAccount {
			if _, ok := seen[suppressKey(r.TransactionDate, r.Category, r.Name)]; ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func suppressKey(date, category, name string) string {
	return strings.ToLower(strings.TrimSpace(date)) + "|" +
		strings.ToLower(strings.TrimSpace(category)) + "|" +
		strings.ToLower(strings.TrimSpace(name))
}
