package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/Dev-123-win/my-shayari-content/pkg/domain"
)

// RunRepository handles run history operations
type RunRepository struct {
	db *sqlx.DB
}

// runSQL represents a run for SQL operations
type runSQL struct {
	ID         int64     `db:"id"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
	Provider   string    `db:"provider"`
	Model      string    `db:"model"`
	KeyIndex   int       `db:"key_index"`
	Attempts   int       `db:"attempts"`
	Status     string    `db:"status"`
	Added      int       `db:"added"`
	Total      int       `db:"total"`
	Error      string    `db:"error"`
}

// NewRunRepository creates a new run repository
func NewRunRepository(database *sqlx.DB) *RunRepository {
	return &RunRepository{db: database}
}

// RecordRun inserts a run record and sets its ID. Lock errors are retried.
func (r *RunRepository) RecordRun(ctx context.Context, run *domain.Run) error {
	rec := &runSQL{
		StartedAt:  run.StartedAt.UTC(),
		FinishedAt: run.FinishedAt.UTC(),
		Provider:   run.Provider,
		Model:      run.Model,
		KeyIndex:   run.KeyIndex,
		Attempts:   run.Attempts,
		Status:     string(run.Status),
		Added:      run.Added,
		Total:      run.Total,
		Error:      run.Error,
	}

	query := `
		INSERT INTO runs (started_at, finished_at, provider, model, key_index, attempts, status, added, total, error)
		VALUES (:started_at, :finished_at, :provider, :model, :key_index, :attempts, :status, :added, :total, :error)
	`

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		result, err := r.db.NamedExecContext(ctx, query, rec)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("record run: %w", err)}
		}
		id, err := result.LastInsertId()
		if err != nil {
			return &criticalError{err: fmt.Errorf("get insert id: %w", err)}
		}
		run.ID = id
		return nil
	}, errCritical)
	if err != nil {
		var ce *criticalError
		if errors.As(err, &ce) {
			return ce.err
		}
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// ListRuns returns up to limit runs, newest first
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	var recs []runSQL
	err := r.db.SelectContext(ctx, &recs, "SELECT * FROM runs ORDER BY started_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	runs := make([]domain.Run, len(recs))
	for i := range recs {
		runs[i] = r.toDomainRun(&recs[i])
	}
	return runs, nil
}

func (r *RunRepository) toDomainRun(rec *runSQL) domain.Run {
	return domain.Run{
		ID:         rec.ID,
		StartedAt:  rec.StartedAt,
		FinishedAt: rec.FinishedAt,
		Provider:   rec.Provider,
		Model:      rec.Model,
		KeyIndex:   rec.KeyIndex,
		Attempts:   rec.Attempts,
		Status:     domain.RunStatus(rec.Status),
		Added:      rec.Added,
		Total:      rec.Total,
		Error:      rec.Error,
	}
}
