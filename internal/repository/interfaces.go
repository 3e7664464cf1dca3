package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/taxis/internal/domain"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("not found")

type RunRepo interface {
	Create(ctx context.Context, r *domain.Run) error
	GetByID(ctx context.Context, id string) (*domain.Run, error)
	List(ctx context.Context, limit int) ([]*domain.Run, error)
	Finish(ctx context.Context, id string, rowCount int) error
}

type ResultRepo interface {
	CreateBatch(ctx context.Context, results []domain.RunResult) error
	ListByRun(ctx context.Context, runID string) ([]domain.RunResult, error)
	CountByCategory(ctx context.Context, runID string) ([]domain.CategoryCount, error)
}
