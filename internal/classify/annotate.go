package classify

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/taxis/internal/ingest"
)

// Output column names appended to annotated tables.
const (
	ColumnCategory = "Category"
	ColumnLanguage = "detected_language"
)

// ErrMissingColumn indicates the configured text column is not in the table.
var ErrMissingColumn = errors.New("text column not found")

// Documents extracts the text column of t as documents indexed by source row.
func Documents(t *ingest.Table, column string) ([]Document, error) {
	values, ok := t.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrMissingColumn, column, t.Header)
	}
	docs := make([]Document, len(values))
	for i, v := range values {
		docs[i] = Document{Index: t.Index[i], Text: v}
	}
	return docs, nil
}

// Annotate returns a copy of t with a Category column and, when languages
// is non-nil, a detected_language column. Existing columns keep their order
// and a column of the same name is overwritten.
func Annotate(t *ingest.Table, results []Result, languages []string) (*ingest.Table, error) {
	codes := make([]string, len(results))
	for i, r := range results {
		codes[i] = r.Code
	}
	out, err := t.SetColumn(ColumnCategory, codes)
	if err != nil {
		return nil, err
	}
	if languages == nil {
		return out, nil
	}
	return out.SetColumn(ColumnLanguage, languages)
}
