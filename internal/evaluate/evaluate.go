// Package evaluate compares predicted categories against hand-labelled
// ground truth and breaks down where the classifier goes wrong.
package evaluate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/alexanderramin/taxis/internal/ingest"
)

// ErrNoOverlap indicates no id appears in both truth and predictions.
var ErrNoOverlap = errors.New("no matching entries between ground truth and predictions")

// Labels maps an entry id to its category.
type Labels map[int]string

// GroundTruthFromRecords reads id/label pairs from columns 0 and 1. Rows with
// a missing field or a non-integer id (such as an "entryId" header) are
// skipped. Labels are trimmed of spaces and quotes.
func GroundTruthFromRecords(records [][]string) Labels {
	out := make(Labels, len(records))
	for _, rec := range records {
		if len(rec) < 2 {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			continue
		}
		label := strings.Trim(strings.TrimSpace(rec[1]), `"`)
		if label == "" {
			continue
		}
		out[id] = label
	}
	return out
}

// LoadGroundTruth reads a header-less semicolon file of id;label rows.
func LoadGroundTruth(path string) (Labels, error) {
	table, _, err := ingest.LoadWithEncoding(path, ';', ingest.EncodingUTF8)
	if err != nil {
		return nil, fmt.Errorf("loading ground truth: %w", err)
	}
	// The loader treats the first line as a header; here it is data.
	records := append([][]string{table.Header}, table.Rows...)
	return GroundTruthFromRecords(records), nil
}

// PredictionsFromTable reads id and label columns from an annotated table.
func PredictionsFromTable(t *ingest.Table, idColumn, labelColumn string) (Labels, error) {
	ids, ok := t.Column(idColumn)
	if !ok {
		return nil, fmt.Errorf("predictions have no %q column", idColumn)
	}
	labels, ok := t.Column(labelColumn)
	if !ok {
		return nil, fmt.Errorf("predictions have no %q column", labelColumn)
	}
	out := make(Labels, len(ids))
	for i := range ids {
		id, err := strconv.Atoi(strings.TrimSpace(ids[i]))
		if err != nil {
			continue
		}
		out[id] = strings.TrimSpace(labels[i])
	}
	return out, nil
}

// LabelMetrics holds per-label precision, recall and F1.
type LabelMetrics struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report is the result of Compare. Matrix rows are true labels and columns
// predicted labels, both in Labels order.
type Report struct {
	Labels   []string
	Matrix   [][]int
	Matched  int
	Correct  int
	Accuracy float64
	PerLabel []LabelMetrics
	MacroF1  float64
}

// Compare matches predictions to truth by id. Labels is the sorted union of
// every label seen in either input.
func Compare(truth, predictions Labels) (*Report, error) {
	set := make(map[string]struct{})
	for _, l := range truth {
		set[l] = struct{}{}
	}
	for _, l := range predictions {
		set[l] = struct{}{}
	}
	labels := make([]string, 0, len(set))
	for l := range set {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	pos := make(map[string]int, len(labels))
	for i, l := range labels {
		pos[l] = i
	}

	r := &Report{Labels: labels, Matrix: make([][]int, len(labels))}
	for i := range r.Matrix {
		r.Matrix[i] = make([]int, len(labels))
	}
	for id, want := range truth {
		got, ok := predictions[id]
		if !ok {
			continue
		}
		r.Matrix[pos[want]][pos[got]]++
		r.Matched++
		if want == got {
			r.Correct++
		}
	}
	if r.Matched == 0 {
		return nil, ErrNoOverlap
	}
	r.Accuracy = float64(r.Correct) / float64(r.Matched)

	var f1Sum float64
	for i, l := range labels {
		tp := r.Matrix[i][i]
		rowSum, colSum := 0, 0
		for j := range labels {
			rowSum += r.Matrix[i][j]
			colSum += r.Matrix[j][i]
		}
		m := LabelMetrics{Label: l, Support: rowSum}
		if colSum > 0 {
			m.Precision = float64(tp) / float64(colSum)
		}
		if rowSum > 0 {
			m.Recall = float64(tp) / float64(rowSum)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		f1Sum += m.F1
		r.PerLabel = append(r.PerLabel, m)
	}
	r.MacroF1 = f1Sum / float64(len(labels))
	return r, nil
}

// Confusion is one "misclassified as" entry.
type Confusion struct {
	Predicted string
	Count     int
	Share     float64 // percent of the true label's samples
}

// LabelErrors summarizes mistakes for one true label.
type LabelErrors struct {
	Label      string
	Total      int
	Correct    int
	Wrong      int
	ErrorRate  float64 // percent, one decimal
	Confusions []Confusion
}

// ErrorAnalysis ranks labels by error rate.
type ErrorAnalysis struct {
	Labels []LabelErrors
	// NeverPredicted lists labels that occur in the truth but were never
	// the predicted label for any entry.
	NeverPredicted []string
}

// AnalyzeErrors derives per-label error rates from a report, highest first.
// Labels with no true samples are omitted.
func AnalyzeErrors(r *Report) ErrorAnalysis {
	var out ErrorAnalysis
	for i, l := range r.Labels {
		total, predicted := 0, 0
		for j := range r.Labels {
			total += r.Matrix[i][j]
			predicted += r.Matrix[j][i]
		}
		if total == 0 {
			continue
		}
		if predicted == 0 {
			out.NeverPredicted = append(out.NeverPredicted, l)
		}

		correct := r.Matrix[i][i]
		le := LabelErrors{
			Label:     l,
			Total:     total,
			Correct:   correct,
			Wrong:     total - correct,
			ErrorRate: round1(float64(total-correct) / float64(total) * 100),
		}
		for j, p := range r.Labels {
			if j == i || r.Matrix[i][j] == 0 {
				continue
			}
			le.Confusions = append(le.Confusions, Confusion{
				Predicted: p,
				Count:     r.Matrix[i][j],
				Share:     round1(float64(r.Matrix[i][j]) / float64(total) * 100),
			})
		}
		sort.SliceStable(le.Confusions, func(a, b int) bool {
			return le.Confusions[a].Count > le.Confusions[b].Count
		})
		out.Labels = append(out.Labels, le)
	}
	sort.SliceStable(out.Labels, func(a, b int) bool {
		return out.Labels[a].ErrorRate > out.Labels[b].ErrorRate
	})
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// WriteMatrixCSV writes the confusion matrix with label headers on both axes.
func WriteMatrixCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{""}, r.Labels...)); err != nil {
		return err
	}
	for i, l := range r.Labels {
		row := make([]string, 0, len(r.Labels)+1)
		row = append(row, l)
		for _, n := range r.Matrix[i] {
			row = append(row, strconv.Itoa(n))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
