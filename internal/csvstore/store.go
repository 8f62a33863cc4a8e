// Package csvstore implements the generic CSV-backed record store.
//
// A Store is bound to one delimited file and one Codec. The file always
// carries a header row; EnsureReady self-heals a missing or stale
// header. Reads are best-effort and degrade to an empty result, writes
// are fatal to the operation and propagate to the caller.
package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Codec maps a record type onto an ordered CSV field set.
type Codec[T any] interface {
	// Headers returns the fixed, ordered field-name list.
	Headers() []string
	// Encode serializes a record into Headers() order.
	Encode(rec T) []string
	// Decode builds a record from header-mapped fields. Column order in
	// the file does not matter, only column names.
	Decode(fields map[string]string) (T, error)
}

// Store is a CSV repository for one record type.
//
// Update replaces only the first matching row; Delete removes all
// matching rows.
type Store[T any] struct {
	path  string
	codec Codec[T]
	log   *slog.Logger
}

// New binds a store to a file path and codec.
func New[T any](path string, codec Codec[T]) *Store[T] {
	return &Store[T]{
		path:  path,
		codec: codec,
		log:   slog.Default().With("component", "csvstore", "path", path),
	}
}

// Path returns the backing file path.
func (s *Store[T]) Path() string { return s.path }

// Headers returns the store's fixed field-name list.
func (s *Store[T]) Headers() []string { return s.codec.Headers() }

// errUnreadable marks EnsureReady failures on the read side. Read
// paths degrade on it; repair-write failures stay fatal.
var errUnreadable = errors.New("store file unreadable")

// EnsureReady creates the backing file with its header if missing, and
// repairs a blank or stale header otherwise. Calling it twice in a row
// performs no further mutation.
func (s *Store[T]) EnsureReady() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s.create()
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", errUnreadable, s.path, err)
	}

	var lines []string
	if len(data) > 0 {
		lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		for i := range lines {
			lines[i] = strings.TrimRight(lines[i], "\r")
		}
	}
	fixed, changed := ReconcileHeader(lines, s.codec.Headers())
	if !changed {
		return nil
	}
	s.log.Warn("repairing file header", "lines", len(lines))
	if err := os.WriteFile(s.path, []byte(strings.Join(fixed, "\n")+"\n"), 0644); err != nil {
		return fmt.Errorf("rewrite %s: %w", s.path, err)
	}
	return nil
}

func (s *Store[T]) create() error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	header := strings.Join(s.codec.Headers(), ",") + "\n"
	if err := os.WriteFile(s.path, []byte(header), 0644); err != nil {
		return fmt.Errorf("create %s: %w", s.path, err)
	}
	return nil
}

// ReadAll returns every record in the file. Lines whose column count
// does not match the header and lines that fail to decode are skipped
// with a diagnostic; an unreadable file degrades to an empty result.
func (s *Store[T]) ReadAll() ([]T, error) {
	if err := s.EnsureReady(); err != nil {
		if errors.Is(err, errUnreadable) {
			s.log.Warn("read failed, treating store as empty", "error", err)
			return []T{}, nil
		}
		return nil, err
	}
	header, rows, err := s.readRows()
	if err != nil {
		s.log.Warn("read failed, treating store as empty", "error", err)
		return []T{}, nil
	}
	out := make([]T, 0, len(rows))
	for i, row := range rows {
		if len(row) != len(header) {
			s.log.Warn("skipping malformed line", "line", i+2, "fields", len(row), "want", len(header))
			continue
		}
		rec, err := s.codec.Decode(mapFields(header, row))
		if err != nil {
			s.log.Warn("skipping undecodable line", "line", i+2, "error", err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Add appends one record. The header is written first if the file did
// not exist prior to this call.
func (s *Store[T]) Add(rec T) error {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		if err := s.create(); err != nil {
			return err
		}
	} else if err != nil {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s for append: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(s.codec.Encode(rec)); err != nil {
		return fmt.Errorf("append to %s: %w", s.path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("append to %s: %w", s.path, err)
	}
	return nil
}

// Update replaces the first row whose value for matchField equals
// matchValue and rewrites the file. It reports whether a match was
// found; when none is found the file is left untouched.
func (s *Store[T]) Update(matchField, matchValue string, rec T) (bool, error) {
	if err := s.EnsureReady(); err != nil {
		return false, err
	}
	header, rows, err := s.readRows()
	if err != nil {
		s.log.Warn("read failed, nothing to update", "error", err)
		return false, nil
	}
	col := columnIndex(header, matchField)
	if col < 0 {
		s.log.Warn("match field not in header", "field", matchField)
		return false, nil
	}
	for i, row := range rows {
		if col < len(row) && row[col] == matchValue {
			rows[i] = s.codec.Encode(rec)
			if err := s.writeRows(header, rows); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Delete removes every row whose value for matchField equals
// matchValue and rewrites the file. It reports whether any row was
// removed.
func (s *Store[T]) Delete(matchField, matchValue string) (bool, error) {
	if err := s.EnsureReady(); err != nil {
		return false, err
	}
	header, rows, err := s.readRows()
	if err != nil {
		s.log.Warn("read failed, nothing to delete", "error", err)
		return false, nil
	}
	col := columnIndex(header, matchField)
	if col < 0 {
		s.log.Warn("match field not in header", "field", matchField)
		return false, nil
	}
	kept := rows[:0]
	removed := 0
	for _, row := range rows {
		if col < len(row) && row[col] == matchValue {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	if removed == 0 {
		return false, nil
	}
	if err := s.writeRows(header, kept); err != nil {
		return false, err
	}
	return true, nil
}

// OverwriteAll replaces the file contents with the header followed by
// the given records, in the given order.
func (s *Store[T]) OverwriteAll(recs []T) error {
	rows := make([][]string, len(recs))
	for i, rec := range recs {
		rows[i] = s.codec.Encode(rec)
	}
	return s.writeRows(s.codec.Headers(), rows)
}

// readRows parses the file into its header and raw data rows. Rows are
// kept as raw cells so that update and delete preserve lines the codec
// cannot decode.
func (s *Store[T]) readRows() (header []string, rows [][]string, err error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err = r.Read()
	if err == io.EOF {
		return s.codec.Headers(), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header of %s: %w", s.path, err)
	}
	if len(header) > 0 {
		header[0] = StripBOM(header[0])
	}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.log.Warn("stopping read at unparsable line", "error", err)
			break
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func (s *Store[T]) writeRows(header []string, rows [][]string) error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("rewrite %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header of %s: %w", s.path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row to %s: %w", s.path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", s.path, err)
	}
	return nil
}

func mapFields(header, row []string) map[string]string {
	m := make(map[string]string, len(header))
	for i, h := range header {
		m[h] = row[i]
	}
	return m
}

func columnIndex(header []string, field string) int {
	for i, h := range header {
		if strings.EqualFold(h, field) {
			return i
		}
	}
	return -1
}
