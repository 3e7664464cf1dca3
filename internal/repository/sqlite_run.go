package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/taxis/internal/db"
	"github.com/alexanderramin/taxis/internal/domain"
)

// SQLiteRunRepo implements RunRepo using a SQLite database.
type SQLiteRunRepo struct {
	db db.DBTX
}

// NewSQLiteRunRepo creates a new SQLiteRunRepo.
func NewSQLiteRunRepo(conn db.DBTX) *SQLiteRunRepo {
	return &SQLiteRunRepo{db: conn}
}

const runColumns = `id, source_file, provider, model, selection, strict, row_count,
	duplicates_removed, started_at, finished_at`

func (r *SQLiteRunRepo) Create(ctx context.Context, run *domain.Run) error {
	query := `INSERT INTO runs (` + runColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var finished any
	if run.FinishedAt != nil {
		finished = run.FinishedAt.UTC().Format(time.RFC3339)
	}
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.SourceFile,
		run.Provider,
		run.Model,
		run.Selection,
		boolToInt(run.Strict),
		run.RowCount,
		run.DuplicatesRemoved,
		run.StartedAt.UTC().Format(time.RFC3339),
		finished,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

func (r *SQLiteRunRepo) GetByID(ctx context.Context, id string) (*domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`
	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	return run, nil
}

// List returns runs newest first. limit <= 0 returns all runs.
func (r *SQLiteRunRepo) List(ctx context.Context, limit int) ([]*domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *SQLiteRunRepo) Finish(ctx context.Context, id string, rowCount int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, row_count = ? WHERE id = ?`,
		nowUTC(), rowCount, id)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.Run, error) {
	var run domain.Run
	var strict int
	var startedAt string
	var finishedAt sql.NullString

	err := row.Scan(
		&run.ID, &run.SourceFile, &run.Provider, &run.Model, &run.Selection,
		&strict, &run.RowCount, &run.DuplicatesRemoved, &startedAt, &finishedAt,
	)
	if err != nil {
		return nil, err
	}
	run.Strict = intToBool(strict)
	run.StartedAt, err = time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	run.FinishedAt = parseNullableTime(finishedAt, time.RFC3339)
	return &run, nil
}
