package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/taxis/internal/ingest"
)

// FormatLoadReport describes how a file was read.
func FormatLoadReport(r *ingest.LoadReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s rows, %s columns\n", Bold(r.File), strconv.Itoa(r.Rows), strconv.Itoa(r.Columns))
	fmt.Fprintf(&b, "  %s %s", Dim("encoding"), r.Encoding)
	if r.EncodingFallback {
		b.WriteString(StyleYellow.Render(" (fallback)"))
	}
	fmt.Fprintf(&b, "  %s %s", Dim("delimiter"), ingest.DelimiterName(r.Delimiter))
	if r.DelimiterFallback {
		b.WriteString(StyleYellow.Render(" (fallback)"))
	}
	b.WriteString("\n")
	return b.String()
}

// FormatDuplicateReport summarizes a duplicate check. At most maxIndices
// row indices are listed.
func FormatDuplicateReport(r ingest.DuplicateReport, maxIndices int) string {
	var b strings.Builder
	b.WriteString(Header("Duplicates"))
	b.WriteString("\n")

	rows := [][]string{
		{"Checked", r.Scope()},
		{"Total rows", strconv.Itoa(r.TotalRows)},
		{"Duplicate rows", strconv.Itoa(r.DuplicateRows)},
		{"Unique rows", strconv.Itoa(r.UniqueRows)},
		{"Share", Percent(r.Percentage, 2)},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "  %-16s %s\n", Dim(row[0]), row[1])
	}

	if len(r.Indices) > 0 && maxIndices > 0 {
		shown := r.Indices
		if len(shown) > maxIndices {
			shown = shown[:maxIndices]
		}
		parts := make([]string, len(shown))
		for i, idx := range shown {
			parts[i] = strconv.Itoa(idx)
		}
		line := strings.Join(parts, ", ")
		if len(r.Indices) > maxIndices {
			line += fmt.Sprintf(" … (+%d)", len(r.Indices)-maxIndices)
		}
		fmt.Fprintf(&b, "  %-16s %s\n", Dim("Rows"), line)
	}
	return b.String()
}
