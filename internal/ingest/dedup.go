package ingest

import (
	"math"
	"strings"
)

// Keep selects which occurrence of a duplicate group survives removal.
type Keep int

const (
	KeepFirst Keep = iota
	KeepLast
)

func (k Keep) String() string {
	if k == KeepLast {
		return "last"
	}
	return "first"
}

// ParseKeep maps "first"/"last" to a Keep policy. Anything else is KeepFirst.
func ParseKeep(s string) Keep {
	if strings.EqualFold(strings.TrimSpace(s), "last") {
		return KeepLast
	}
	return KeepFirst
}

// DuplicateReport summarizes a duplicate check.
type DuplicateReport struct {
	TotalRows      int
	DuplicateRows  int
	UniqueRows     int
	Percentage     float64 // rounded to two decimals
	Indices        []int   // source indices of rows that are not first occurrences
	CheckedColumns []string
}

// WholeRow reports whether the check compared entire rows.
func (r DuplicateReport) WholeRow() bool {
	return len(r.CheckedColumns) == 0
}

// Scope renders the checked columns for display.
func (r DuplicateReport) Scope() string {
	if r.WholeRow() {
		return "all columns"
	}
	return "columns: " + strings.Join(r.CheckedColumns, ", ")
}

// CheckDuplicates counts rows that repeat an earlier row's key. A nil or
// empty columns slice compares whole rows. Column names missing from the
// table are ignored; when none remain the check compares whole rows.
func CheckDuplicates(t *Table, columns []string) DuplicateReport {
	cols, names := resolveColumns(t, columns)
	flags := duplicateFlags(t, cols, KeepFirst)

	rep := DuplicateReport{TotalRows: t.Len(), CheckedColumns: names}
	for i, dup := range flags {
		if dup {
			rep.DuplicateRows++
			rep.Indices = append(rep.Indices, t.Index[i])
		}
	}
	rep.UniqueRows = rep.TotalRows - rep.DuplicateRows
	if rep.TotalRows > 0 {
		pct := float64(rep.DuplicateRows) / float64(rep.TotalRows) * 100
		rep.Percentage = math.Round(pct*100) / 100
	}
	return rep
}

// RemoveDuplicates returns a new table with one row per key, chosen by keep.
// Surviving rows keep their relative order; t is not modified.
func RemoveDuplicates(t *Table, columns []string, keep Keep) *Table {
	cols, _ := resolveColumns(t, columns)
	flags := duplicateFlags(t, cols, keep)

	out := &Table{Header: append([]string(nil), t.Header...)}
	for i, dup := range flags {
		if dup {
			continue
		}
		out.Rows = append(out.Rows, append([]string(nil), t.Rows[i]...))
		out.Index = append(out.Index, t.Index[i])
	}
	return out
}

func resolveColumns(t *Table, columns []string) ([]int, []string) {
	var idx []int
	var names []string
	for _, name := range columns {
		i := t.ColumnIndex(name)
		if i < 0 {
			continue
		}
		idx = append(idx, i)
		names = append(names, name)
	}
	return idx, names
}

// duplicateFlags marks every row that is not the kept occurrence of its key.
func duplicateFlags(t *Table, cols []int, keep Keep) []bool {
	flags := make([]bool, len(t.Rows))
	seen := make(map[string]struct{}, len(t.Rows))

	mark := func(i int) {
		k := rowKey(t.Rows[i], cols)
		if _, ok := seen[k]; ok {
			flags[i] = true
			return
		}
		seen[k] = struct{}{}
	}

	if keep == KeepLast {
		for i := len(t.Rows) - 1; i >= 0; i-- {
			mark(i)
		}
	} else {
		for i := range t.Rows {
			mark(i)
		}
	}
	return flags
}

const keySep = "\x1f"

func rowKey(row []string, cols []int) string {
	if len(cols) == 0 {
		return strings.Join(row, keySep)
	}
	parts := make([]string, len(cols))
	for j, c := range cols {
		if c < len(row) {
			parts[j] = row[c]
		}
	}
	return strings.Join(parts, keySep)
}
