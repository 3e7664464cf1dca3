package testutil

import (
	"time"

	"github.com/alexanderramin/taxis/internal/domain"
	"github.com/google/uuid"
)

// Run options
type RunOption func(*domain.Run)

func WithProvider(provider, model string) RunOption {
	return func(r *domain.Run) {
		r.Provider = provider
		r.Model = model
	}
}

func WithSelection(codes string) RunOption {
	return func(r *domain.Run) {
		r.Selection = codes
	}
}

func WithStrict() RunOption {
	return func(r *domain.Run) {
		r.Strict = true
	}
}

func WithStartedAt(t time.Time) RunOption {
	return func(r *domain.Run) {
		r.StartedAt = t
	}
}

func WithFinished(rows int) RunOption {
	return func(r *domain.Run) {
		now := r.StartedAt.Add(time.Minute)
		r.FinishedAt = &now
		r.RowCount = rows
	}
}

func WithDuplicatesRemoved(n int) RunOption {
	return func(r *domain.Run) {
		r.DuplicatesRemoved = n
	}
}

func NewTestRun(sourceFile string, opts ...RunOption) *domain.Run {
	r := &domain.Run{
		ID:         uuid.New().String(),
		SourceFile: sourceFile,
		Provider:   "ollama",
		Model:      "test-model",
		Selection:  "D.I,S.S,OTHER",
		StartedAt:  time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result options
type ResultOption func(*domain.RunResult)

func WithLanguage(lang string) ResultOption {
	return func(r *domain.RunResult) {
		r.Language = lang
	}
}

func WithUnknownCode() ResultOption {
	return func(r *domain.RunResult) {
		r.KnownCode = false
	}
}

func WithResultError(msg string) ResultOption {
	return func(r *domain.RunResult) {
		r.Error = msg
	}
}

func NewTestResult(runID string, row int, category string, opts ...ResultOption) domain.RunResult {
	r := domain.RunResult{
		RunID:     runID,
		RowIndex:  row,
		Text:      "query text",
		Category:  category,
		KnownCode: true,
		Language:  "en",
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}
