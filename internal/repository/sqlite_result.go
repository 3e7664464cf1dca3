package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/taxis/internal/db"
	"github.com/alexanderramin/taxis/internal/domain"
)

// SQLiteResultRepo implements ResultRepo using a SQLite database.
type SQLiteResultRepo struct {
	db db.DBTX
}

// NewSQLiteResultRepo creates a new SQLiteResultRepo.
func NewSQLiteResultRepo(conn db.DBTX) *SQLiteResultRepo {
	return &SQLiteResultRepo{db: conn}
}

func (r *SQLiteResultRepo) CreateBatch(ctx context.Context, results []domain.RunResult) error {
	query := `INSERT INTO run_results (run_id, row_index, text, category, known_code, language, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	for _, res := range results {
		_, err := r.db.ExecContext(ctx, query,
			res.RunID,
			res.RowIndex,
			res.Text,
			res.Category,
			boolToInt(res.KnownCode),
			res.Language,
			res.Error,
		)
		if err != nil {
			return fmt.Errorf("inserting result %d for run %s: %w", res.RowIndex, res.RunID, err)
		}
	}
	return nil
}

func (r *SQLiteResultRepo) ListByRun(ctx context.Context, runID string) ([]domain.RunResult, error) {
	query := `SELECT run_id, row_index, text, category, known_code, language, error
		FROM run_results WHERE run_id = ? ORDER BY row_index`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("listing results by run: %w", err)
	}
	defer rows.Close()

	var out []domain.RunResult
	for rows.Next() {
		var res domain.RunResult
		var known int
		if err := rows.Scan(&res.RunID, &res.RowIndex, &res.Text, &res.Category, &known, &res.Language, &res.Error); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		res.KnownCode = intToBool(known)
		out = append(out, res)
	}
	return out, rows.Err()
}

// CountByCategory returns per-category totals for a run, largest first.
func (r *SQLiteResultRepo) CountByCategory(ctx context.Context, runID string) ([]domain.CategoryCount, error) {
	query := `SELECT category, COUNT(*) AS n FROM run_results
		WHERE run_id = ? GROUP BY category ORDER BY n DESC, category`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("counting results by category: %w", err)
	}
	defer rows.Close()

	var out []domain.CategoryCount
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning category count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
