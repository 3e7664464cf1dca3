package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/taxis/internal/classify"
	"github.com/alexanderramin/taxis/internal/domain"
	"github.com/alexanderramin/taxis/internal/ingest"
	"github.com/alexanderramin/taxis/internal/langid"
)

// ClassifyFileRequest describes one input file and how to prepare it.
type ClassifyFileRequest struct {
	Path       string
	Delimiter  rune
	Encoding   string
	TextColumn string
	Keep       ingest.Keep
	// Sample caps the number of rows classified after de-duplication.
	// Zero classifies everything.
	Sample         int
	DetectLanguage bool
	// OutDir receives <name>_classified.csv and <name>_summary.csv. Empty
	// skips writing.
	OutDir       string
	OutDelimiter rune
}

// ClassifyFileResult is the outcome of classifying one file.
type ClassifyFileResult struct {
	RunID             string
	Analysis          *ingest.Analysis
	DuplicatesRemoved int
	Annotated         *ingest.Table
	Results           []classify.Result
	Summary           []classify.CategoryCount
	ClassifiedPath    string
	SummaryPath       string
}

// Errors counts results that ended as a service fault.
func (r *ClassifyFileResult) Errors() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// ClassifyServiceOptions labels persisted runs and wires collaborators.
type ClassifyServiceOptions struct {
	Provider string
	Model    string
	Logger   *slog.Logger
}

type classifyService struct {
	classifier *classify.Classifier
	identifier langid.Identifier
	runs       RunService
	opts       ClassifyServiceOptions
	observer   UseCaseObserver
}

// NewClassifyService returns a ClassifyService. identifier and runs may be
// nil, which disables language detection and run persistence.
func NewClassifyService(
	classifier *classify.Classifier,
	identifier langid.Identifier,
	runs RunService,
	opts ClassifyServiceOptions,
	observers ...UseCaseObserver,
) ClassifyService {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &classifyService{
		classifier: classifier,
		identifier: identifier,
		runs:       runs,
		opts:       opts,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *classifyService) ClassifyFile(ctx context.Context, req ClassifyFileRequest) (result *ClassifyFileResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"file": req.Path}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "classify-file",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	analysis, err := ingest.Analyze(req.Path, ingest.AnalyzeOptions{
		Delimiter:  req.Delimiter,
		Encoding:   req.Encoding,
		TextColumn: req.TextColumn,
		Logger:     s.opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	cleaned := ingest.RemoveDuplicates(analysis.Table, analysis.Duplicates.CheckedColumns, req.Keep)
	removed := analysis.Table.Len() - cleaned.Len()
	sample := cleaned.Truncate(req.Sample)
	fields["rows"] = sample.Len()
	fields["duplicates_removed"] = removed

	docs, err := classify.Documents(sample, req.TextColumn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.Path, err)
	}

	sel := s.classifier.Selection()
	s.opts.Logger.Info("classifying",
		"file", req.Path, "rows", len(docs), "categories", sel.Summary())

	results := s.classifier.WithSource(filepath.Base(req.Path)).ClassifyAll(ctx, docs)

	var languages []string
	if req.DetectLanguage && s.identifier != nil {
		languages = classify.DetectLanguages(s.identifier, docs)
	}

	annotated, err := classify.Annotate(sample, results, languages)
	if err != nil {
		return nil, fmt.Errorf("annotating %s: %w", req.Path, err)
	}

	result = &ClassifyFileResult{
		Analysis:          analysis,
		DuplicatesRemoved: removed,
		Annotated:         annotated,
		Results:           results,
		Summary:           classify.Summarize(results),
	}
	fields["errors"] = result.Errors()

	if req.OutDir != "" {
		if err := s.writeOutputs(req, result); err != nil {
			return nil, err
		}
	}

	if s.runs != nil {
		run := &domain.Run{
			SourceFile:        req.Path,
			Provider:          s.opts.Provider,
			Model:             s.opts.Model,
			Selection:         sel.String(),
			Strict:            s.classifier.Strict(),
			DuplicatesRemoved: removed,
			StartedAt:         startedAt,
		}
		if err := s.runs.Record(ctx, run, runResults(docs, results, languages)); err != nil {
			return nil, fmt.Errorf("recording run for %s: %w", req.Path, err)
		}
		result.RunID = run.ID
		fields["run_id"] = run.ID
	}

	return result, nil
}

func (s *classifyService) writeOutputs(req ClassifyFileRequest, result *ClassifyFileResult) error {
	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	delim := req.OutDelimiter
	if delim == 0 {
		delim = ','
	}
	stem := OutputStem(req.Path)

	result.ClassifiedPath = filepath.Join(req.OutDir, stem+"_classified.csv")
	if err := writeTableFile(result.ClassifiedPath, result.Annotated, delim); err != nil {
		return err
	}
	result.SummaryPath = filepath.Join(req.OutDir, stem+"_summary.csv")
	if err := writeTableFile(result.SummaryPath, classify.SummaryTable(result.Summary), delim); err != nil {
		return err
	}
	s.opts.Logger.Info("wrote results",
		"classified", result.ClassifiedPath, "summary", result.SummaryPath)
	return nil
}

// OutputStem strips directories and data extensions from an input path:
// "in/q.csv.gz" becomes "q".
func OutputStem(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".gz", ".csv", ".tsv", ".txt"} {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			base = base[:len(base)-len(ext)]
		}
	}
	return base
}

func writeTableFile(path string, t *ingest.Table, delim rune) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	if err := ingest.WriteCSV(f, t, delim); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func runResults(docs []classify.Document, results []classify.Result, languages []string) []domain.RunResult {
	out := make([]domain.RunResult, len(results))
	for i, r := range results {
		rr := domain.RunResult{
			RowIndex:  docs[i].Index,
			Text:      docs[i].Text,
			Category:  r.Code,
			KnownCode: r.Known,
		}
		if languages != nil {
			rr.Language = languages[i]
		}
		if r.Err != nil {
			rr.Error = r.Err.Error()
		}
		out[i] = rr
	}
	return out
}
