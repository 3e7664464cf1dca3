package domain

import "time"

// Run is one classification pass over one input file.
type Run struct {
	ID                string
	SourceFile        string
	Provider          string
	Model             string
	Selection         string // comma-joined active codes
	Strict            bool
	RowCount          int
	DuplicatesRemoved int
	StartedAt         time.Time
	FinishedAt        *time.Time
}

// Finished reports whether the run completed.
func (r *Run) Finished() bool {
	return r.FinishedAt != nil
}

// RunResult is the stored outcome for one input row.
type RunResult struct {
	RunID     string
	RowIndex  int
	Text      string
	Category  string
	KnownCode bool
	Language  string
	Error     string
}

// CategoryCount is a per-run category total.
type CategoryCount struct {
	Category string
	Count    int
}
