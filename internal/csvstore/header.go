package csvstore

import "strings"

const bom = "\ufeff"

// StripBOM removes a UTF-8 byte-order mark from the front of a string.
// Spreadsheet exports routinely carry one on the first header cell.
func StripBOM(s string) string {
	return strings.TrimPrefix(s, bom)
}

// ReconcileHeader repairs a file's line set so it starts with the
// expected header. It is a pure function so the self-healing logic can
// be tested without a filesystem.
//
// Rules:
//   - empty input becomes just the header
//   - a first line equal to the expected header (after BOM stripping)
//     leaves the input untouched
//   - otherwise the expected header is prepended; the original first
//     line is dropped only when it looks like a stale header (it
//     mentions recognizable field names), since anything else may be
//     real data that must be preserved
//
// The returned bool reports whether the lines changed. Applying the
// function twice never changes the result of the first application.
func ReconcileHeader(lines []string, expected []string) ([]string, bool) {
	header := strings.Join(expected, ",")
	if len(lines) == 0 {
		return []string{header}, true
	}
	first := StripBOM(lines[0])
	if first == header {
		return lines, false
	}
	out := make([]string, 0, len(lines)+1)
	out = append(out, header)
	rest := lines
	if looksLikeHeader(first) {
		rest = lines[1:]
	}
	out = append(out, rest...)
	return out, true
}

// looksLikeHeader reports whether a line is plausibly a stale header
// row rather than data. The heuristic matches on field names that
// appear in every record header this tool writes.
func looksLikeHeader(line string) bool {
	l := strings.ToLower(line)
	return strings.Contains(l, "name") && strings.Contains(l, "amount")
}
