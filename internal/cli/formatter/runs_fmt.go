package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/taxis/internal/domain"
)

// FormatRunList renders stored runs newest first.
func FormatRunList(runs []*domain.Run, now time.Time) string {
	if len(runs) == 0 {
		return Dim("No runs recorded yet.") + "\n"
	}
	rows := make([][]string, len(runs))
	for i, r := range runs {
		status := StyleGreen.Render("done")
		if !r.Finished() {
			status = StyleYellow.Render("open")
		}
		mode := "faithful"
		if r.Strict {
			mode = "strict"
		}
		rows[i] = []string{
			TruncID(r.ID),
			HumanTimestampFrom(r.StartedAt, now),
			Truncate(r.SourceFile, 40),
			r.Provider + "/" + r.Model,
			strconv.Itoa(r.RowCount),
			mode,
			status,
		}
	}
	return RenderTable([]string{"ID", "STARTED", "FILE", "MODEL", "ROWS", "MODE", "STATUS"}, rows,
		AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight)
}

// FormatRunDetail renders one run with its category totals and the first
// sample results.
func FormatRunDetail(r *domain.Run, counts []domain.CategoryCount, results []domain.RunResult, sample int) string {
	var b strings.Builder
	b.WriteString(Header("Run " + r.ID))
	b.WriteString("\n")
	fields := [][2]string{
		{"file", r.SourceFile},
		{"model", r.Provider + "/" + r.Model},
		{"categories", r.Selection},
		{"strict", strconv.FormatBool(r.Strict)},
		{"rows", strconv.Itoa(r.RowCount)},
		{"duplicates", strconv.Itoa(r.DuplicatesRemoved)},
		{"started", r.StartedAt.Local().Format(time.DateTime)},
	}
	if r.FinishedAt != nil {
		fields = append(fields, [2]string{"finished", r.FinishedAt.Local().Format(time.DateTime)})
	}
	for _, f := range fields {
		fmt.Fprintf(&b, "  %-12s %s\n", Dim(f[0]), f[1])
	}
	b.WriteString("\n")

	countRows := make([][]string, len(counts))
	for i, c := range counts {
		countRows[i] = []string{c.Category, strconv.Itoa(c.Count)}
	}
	b.WriteString(RenderTable([]string{"CATEGORY", "COUNT"}, countRows, AlignLeft, AlignRight))

	if sample > 0 && len(results) > 0 {
		b.WriteString("\n")
		if len(results) > sample {
			results = results[:sample]
		}
		rows := make([][]string, len(results))
		for i, res := range results {
			rows[i] = []string{
				strconv.Itoa(res.RowIndex),
				Code(res.Category, res.KnownCode),
				res.Language,
				Truncate(res.Text, 60),
			}
		}
		b.WriteString(RenderTable([]string{"ROW", "CATEGORY", "LANG", "TEXT"}, rows, AlignRight))
	}
	return b.String()
}
