package service

import (
	"context"

	"github.com/alexanderramin/taxis/internal/domain"
	"github.com/alexanderramin/taxis/internal/ingest"
)

type RunService interface {
	// Record stores a run and all of its results in one transaction and
	// marks the run finished.
	Record(ctx context.Context, run *domain.Run, results []domain.RunResult) error
	GetByID(ctx context.Context, id string) (*domain.Run, error)
	List(ctx context.Context, limit int) ([]*domain.Run, error)
	Results(ctx context.Context, runID string) ([]domain.RunResult, error)
	Summary(ctx context.Context, runID string) ([]domain.CategoryCount, error)
}

type ClassifyService interface {
	ClassifyFile(ctx context.Context, req ClassifyFileRequest) (*ClassifyFileResult, error)
}

type DedupService interface {
	Check(ctx context.Context, req DedupRequest) (*DedupResult, error)
}

// DedupRequest selects an input file and the column duplicates are judged on.
type DedupRequest struct {
	Path       string
	Delimiter  rune
	Encoding   string
	TextColumn string
	Keep       ingest.Keep
	// OutPath, when set, receives the de-duplicated table.
	OutPath      string
	OutDelimiter rune
}

// DedupResult holds the duplicate analysis of a file.
type DedupResult struct {
	Analysis *ingest.Analysis
	Cleaned  *ingest.Table
	Written  string
}
