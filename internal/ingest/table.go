// Package ingest loads delimited query exports into an in-memory table,
// detecting delimiter and text encoding from fixed fallback chains, and
// reports or removes duplicate rows.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Table is a header plus string rows. Index holds, for each row, its
// position in the file the table was loaded from; it survives deduplication
// and truncation so rows stay traceable to their source line.
type Table struct {
	Header []string
	Rows   [][]string
	Index  []int
}

// NewTable builds a Table and assigns positional indices 0..n-1.
func NewTable(header []string, rows [][]string) *Table {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	return &Table{Header: header, Rows: rows, Index: idx}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a header column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the header contains name.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Column returns a copy of the named column's values.
func (t *Table) Column(name string) ([]string, bool) {
	i := t.ColumnIndex(name)
	if i < 0 {
		return nil, false
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		if i < len(row) {
			out[r] = row[i]
		}
	}
	return out, true
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = append([]string(nil), r...)
	}
	return &Table{
		Header: append([]string(nil), t.Header...),
		Rows:   rows,
		Index:  append([]int(nil), t.Index...),
	}
}

// Truncate returns a copy holding at most n rows. n <= 0 means no limit.
func (t *Table) Truncate(n int) *Table {
	out := t.Clone()
	if n <= 0 || n >= len(out.Rows) {
		return out
	}
	out.Rows = out.Rows[:n]
	out.Index = out.Index[:n]
	return out
}

// AppendColumn returns a copy with a new trailing column. Existing columns
// keep their order.
func (t *Table) AppendColumn(name string, values []string) (*Table, error) {
	if len(values) != len(t.Rows) {
		return nil, fmt.Errorf("column %s has %d values for %d rows", name, len(values), len(t.Rows))
	}
	out := t.Clone()
	out.Header = append(out.Header, name)
	for i := range out.Rows {
		out.Rows[i] = append(out.Rows[i], values[i])
	}
	return out, nil
}

// SetColumn returns a copy with name holding values. An existing column is
// overwritten in place; otherwise the column is appended.
func (t *Table) SetColumn(name string, values []string) (*Table, error) {
	i := t.ColumnIndex(name)
	if i < 0 {
		return t.AppendColumn(name, values)
	}
	if len(values) != len(t.Rows) {
		return nil, fmt.Errorf("column %s has %d values for %d rows", name, len(values), len(t.Rows))
	}
	out := t.Clone()
	for r := range out.Rows {
		out.Rows[r][i] = values[r]
	}
	return out, nil
}

// WriteCSV writes the table with its header using the given delimiter.
func WriteCSV(w io.Writer, t *Table, delimiter rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	return nil
}
