package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/taxis/internal/evaluate"
)

// FormatConfusionMatrix renders the matrix with true labels as rows.
// Diagonal cells are highlighted.
func FormatConfusionMatrix(r *evaluate.Report) string {
	headers := append([]string{"TRUE \\ PRED"}, r.Labels...)
	aligns := make([]Align, len(headers))
	for i := 1; i < len(aligns); i++ {
		aligns[i] = AlignRight
	}
	rows := make([][]string, len(r.Labels))
	for i, l := range r.Labels {
		row := []string{Bold(l)}
		for j, n := range r.Matrix[i] {
			cell := strconv.Itoa(n)
			switch {
			case n == 0:
				cell = Dim(cell)
			case i == j:
				cell = StyleGreen.Render(cell)
			}
			row = append(row, cell)
		}
		rows[i] = row
	}
	return RenderTable(headers, rows, aligns...)
}

// FormatEvaluation renders accuracy, the matrix, per-label metrics and the
// error analysis.
func FormatEvaluation(r *evaluate.Report, analysis evaluate.ErrorAnalysis) string {
	var b strings.Builder

	b.WriteString(Header("Evaluation"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %d  %s %d  %s %s  %s %.3f\n\n",
		Dim("matched"), r.Matched,
		Dim("correct"), r.Correct,
		Dim("accuracy"), Percent(r.Accuracy*100, 2),
		Dim("macro F1"), r.MacroF1,
	)

	b.WriteString(Header("Confusion matrix"))
	b.WriteString("\n")
	b.WriteString(FormatConfusionMatrix(r))
	b.WriteString("\n")

	b.WriteString(Header("Per label"))
	b.WriteString("\n")
	rows := make([][]string, len(r.PerLabel))
	for i, m := range r.PerLabel {
		rows[i] = []string{
			m.Label,
			fmt.Sprintf("%.2f", m.Precision),
			fmt.Sprintf("%.2f", m.Recall),
			fmt.Sprintf("%.2f", m.F1),
			strconv.Itoa(m.Support),
		}
	}
	b.WriteString(RenderTable([]string{"LABEL", "PRECISION", "RECALL", "F1", "SUPPORT"}, rows,
		AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight))
	b.WriteString("\n")

	b.WriteString(FormatErrorAnalysis(analysis))
	return b.String()
}

// FormatErrorAnalysis lists labels by error rate with their most common
// confusions.
func FormatErrorAnalysis(a evaluate.ErrorAnalysis) string {
	var b strings.Builder
	b.WriteString(Header("Errors by label"))
	b.WriteString("\n")
	for _, l := range a.Labels {
		rate := Percent(l.ErrorRate, 1)
		switch {
		case l.ErrorRate >= 50:
			rate = StyleRed.Render(rate)
		case l.ErrorRate > 0:
			rate = StyleYellow.Render(rate)
		default:
			rate = StyleGreen.Render(rate)
		}
		fmt.Fprintf(&b, "  %s  %s  %s\n", Bold(l.Label), rate, Dim(fmt.Sprintf("(%d/%d wrong)", l.Wrong, l.Total)))
		for _, c := range l.Confusions {
			fmt.Fprintf(&b, "      %s %s: %d %s\n", Dim("→"), c.Predicted, c.Count, Dim("("+Percent(c.Share, 1)+")"))
		}
	}
	if len(a.NeverPredicted) > 0 {
		fmt.Fprintf(&b, "\n  %s %s\n", StyleRed.Render("never predicted:"), strings.Join(a.NeverPredicted, ", "))
	}
	return b.String()
}
