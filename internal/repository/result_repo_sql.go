package repository

import (
	"certprep/internal/model"
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type sqlResultRepo struct {
	db *sqlx.DB
}

// NewSQLResultRepo returns a ResultRepo backed by sqlite or postgres
func NewSQLResultRepo(db *sqlx.DB) ResultRepo {
	return &sqlResultRepo{db: db}
}

func (r *sqlResultRepo) Create(ctx context.Context, result *model.Result) error {
	query := "INSERT INTO results (date, score, total) VALUES (?, ?, ?)"
	args := []interface{}{result.Date.UTC(), result.Score, result.Total}

	if r.db.DriverName() == "postgres" {
		err := r.db.QueryRowxContext(ctx, r.db.Rebind(query+" RETURNING id"), args...).Scan(&result.ID)
		if err != nil {
			return fmt.Errorf("failed to create result: %w", err)
		}
		return nil
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("failed to create result: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	result.ID = id
	return nil
}

func (r *sqlResultRepo) List(ctx context.Context) ([]model.Result, error) {
	results := []model.Result{}
	err := r.db.SelectContext(ctx, &results, "SELECT id, date, score, total FROM results ORDER BY date DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}
	return results, nil
}

func (r *sqlResultRepo) Stats(ctx context.Context) (*model.ResultStats, error) {
	var stats model.ResultStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			COUNT(*) AS attempts,
			COALESCE(AVG(score * 100.0 / total), 0) AS average_percent,
			COALESCE(MAX(score * 100.0 / total), 0) AS best_percent,
			COALESCE(SUM(total), 0) AS total_answered,
			COALESCE(SUM(score), 0) AS total_correct
		FROM results
		WHERE total > 0`)
	if err != nil {
		return nil, fmt.Errorf("failed to get result stats: %w", err)
	}
	return &stats, nil
}
