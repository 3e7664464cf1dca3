package classify

import (
	"sort"
	"strconv"

	"github.com/alexanderramin/taxis/internal/ingest"
)

// CategoryCount is one line of the category distribution.
type CategoryCount struct {
	Code  string
	Count int
}

// Summarize counts results per code, most frequent first, ties by code.
func Summarize(results []Result) []CategoryCount {
	counts := make(map[string]int)
	for _, r := range results {
		counts[r.Code]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for code, n := range counts {
		out = append(out, CategoryCount{Code: code, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// SummaryTable renders counts as a Category/Count table for export.
func SummaryTable(counts []CategoryCount) *ingest.Table {
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{c.Code, strconv.Itoa(c.Count)}
	}
	return ingest.NewTable([]string{ColumnCategory, "Count"}, rows)
}
