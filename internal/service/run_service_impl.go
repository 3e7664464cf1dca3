package service

import (
	"context"
	"time"

	"github.com/alexanderramin/taxis/internal/db"
	"github.com/alexanderramin/taxis/internal/domain"
	"github.com/alexanderramin/taxis/internal/repository"
	"github.com/google/uuid"
)

type runService struct {
	runs    repository.RunRepo
	results repository.ResultRepo
	uow     db.UnitOfWork
}

func NewRunService(runs repository.RunRepo, results repository.ResultRepo, uow db.UnitOfWork) RunService {
	return &runService{runs: runs, results: results, uow: uow}
}

func (s *runService) Record(ctx context.Context, run *domain.Run, results []domain.RunResult) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	for i := range results {
		results[i].RunID = run.ID
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRuns := repository.NewSQLiteRunRepo(tx)
		txResults := repository.NewSQLiteResultRepo(tx)

		if err := txRuns.Create(ctx, run); err != nil {
			return err
		}
		if err := txResults.CreateBatch(ctx, results); err != nil {
			return err
		}
		return txRuns.Finish(ctx, run.ID, len(results))
	})
}

func (s *runService) GetByID(ctx context.Context, id string) (*domain.Run, error) {
	return s.runs.GetByID(ctx, id)
}

func (s *runService) List(ctx context.Context, limit int) ([]*domain.Run, error) {
	return s.runs.List(ctx, limit)
}

func (s *runService) Results(ctx context.Context, runID string) ([]domain.RunResult, error) {
	if _, err := s.runs.GetByID(ctx, runID); err != nil {
		return nil, err
	}
	return s.results.ListByRun(ctx, runID)
}

func (s *runService) Summary(ctx context.Context, runID string) ([]domain.CategoryCount, error) {
	if _, err := s.runs.GetByID(ctx, runID); err != nil {
		return nil, err
	}
	return s.results.CountByCategory(ctx, runID)
}
