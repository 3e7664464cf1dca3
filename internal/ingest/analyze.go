package ingest

import (
	"fmt"
	"log/slog"
)

// AnalyzeOptions configures Analyze.
type AnalyzeOptions struct {
	Delimiter  rune
	Encoding   string
	TextColumn string
	Logger     *slog.Logger
}

// Analysis is the result of loading a file and checking it for duplicates.
type Analysis struct {
	Table      *Table
	Load       *LoadReport
	Duplicates DuplicateReport
}

// Analyze loads path through the encoding and delimiter chains and checks it
// for duplicates on the text column. A text column the file does not have
// is logged and the check falls back to whole rows.
func Analyze(path string, opts AnalyzeOptions) (*Analysis, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	delim := opts.Delimiter
	if delim == 0 {
		delim = ';'
	}

	table, load, err := LoadWithEncoding(path, delim, opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	logger.Info("loaded input",
		"file", path,
		"rows", load.Rows,
		"columns", load.Columns,
		"encoding", load.Encoding,
		"delimiter", DelimiterName(load.Delimiter),
		"fallback", load.FallbackUsed(),
	)

	var columns []string
	switch {
	case opts.TextColumn == "":
	case table.HasColumn(opts.TextColumn):
		columns = []string{opts.TextColumn}
	default:
		logger.Warn("text column not found, checking whole rows",
			"file", path, "column", opts.TextColumn, "header", table.Header)
	}

	dups := CheckDuplicates(table, columns)
	logger.Info("duplicate check",
		"file", path,
		"scope", dups.Scope(),
		"total", dups.TotalRows,
		"duplicates", dups.DuplicateRows,
		"percentage", dups.Percentage,
	)

	return &Analysis{Table: table, Load: load, Duplicates: dups}, nil
}
