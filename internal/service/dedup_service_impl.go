package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/taxis/internal/ingest"
)

type dedupService struct {
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewDedupService(logger *slog.Logger, observers ...UseCaseObserver) DedupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &dedupService{logger: logger, observer: useCaseObserverOrNoop(observers)}
}

func (s *dedupService) Check(ctx context.Context, req DedupRequest) (result *DedupResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"file": req.Path}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "dedup",
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
		Logger:     s.logger,
	})
	if err != nil {
		return nil, err
	}
	fields["duplicates"] = analysis.Duplicates.DuplicateRows

	result = &DedupResult{
		Analysis: analysis,
		Cleaned:  ingest.RemoveDuplicates(analysis.Table, analysis.Duplicates.CheckedColumns, req.Keep),
	}
	if req.OutPath == "" {
		return result, nil
	}

	delim := req.OutDelimiter
	if delim == 0 {
		delim = analysis.Load.Delimiter
	}
	if err := writeTableFile(req.OutPath, result.Cleaned, delim); err != nil {
		return nil, err
	}
	result.Written = req.OutPath
	s.logger.Info("wrote de-duplicated file", "file", req.OutPath, "rows", result.Cleaned.Len())
	return result, nil
}
