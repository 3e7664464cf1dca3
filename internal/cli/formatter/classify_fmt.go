package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/taxis/internal/classify"
	"github.com/alexanderramin/taxis/internal/service"
	"github.com/alexanderramin/taxis/internal/taxonomy"
)

const distributionBarWidth = 20

// FormatDistribution renders category counts with share bars.
func FormatDistribution(counts []classify.CategoryCount, tax *taxonomy.Taxonomy) string {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		share := 0.0
		if total > 0 {
			share = float64(c.Count) / float64(total)
		}
		title := ""
		if cat, ok := tax.Lookup(c.Code); ok {
			title = cat.Title
		}
		rows = append(rows, []string{
			Code(c.Code, tax.Contains(c.Code)),
			Dim(title),
			strconv.Itoa(c.Count),
			RenderShareBar(share, distributionBarWidth),
			Percent(share*100, 1),
		})
	}
	return RenderTable([]string{"CATEGORY", "TITLE", "COUNT", "", "SHARE"}, rows,
		AlignLeft, AlignLeft, AlignRight, AlignLeft, AlignRight)
}

// FormatClassifyResult summarizes one classified file.
func FormatClassifyResult(path string, res *service.ClassifyFileResult, tax *taxonomy.Taxonomy) string {
	var b strings.Builder
	b.WriteString(Header("Classification " + path))
	b.WriteString("\n")

	fmt.Fprintf(&b, "  %s %d", Dim("classified"), len(res.Results))
	if res.DuplicatesRemoved > 0 {
		fmt.Fprintf(&b, "  %s %d", Dim("duplicates removed"), res.DuplicatesRemoved)
	}
	if n := res.Errors(); n > 0 {
		fmt.Fprintf(&b, "  %s", StyleRed.Render(fmt.Sprintf("%d failed", n)))
	}
	if n := unknownAnswers(res.Results); n > 0 {
		fmt.Fprintf(&b, "  %s", StyleYellow.Render(fmt.Sprintf("%d outside selection", n)))
	}
	b.WriteString("\n\n")

	b.WriteString(FormatDistribution(res.Summary, tax))

	if res.ClassifiedPath != "" {
		fmt.Fprintf(&b, "\n  %s %s\n", Dim("results"), res.ClassifiedPath)
		fmt.Fprintf(&b, "  %s %s\n", Dim("summary"), res.SummaryPath)
	}
	if res.RunID != "" {
		fmt.Fprintf(&b, "  %s %s\n", Dim("run"), res.RunID)
	}
	return b.String()
}

func unknownAnswers(results []classify.Result) int {
	n := 0
	for _, r := range results {
		if !r.Known {
			n++
		}
	}
	return n
}
