package repository

import (
	"certprep/internal/model"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const questionColumns = `id, domain, question, option_a, option_b, option_c, option_d,
	correct_option, COALESCE(explanation, '') AS explanation`

type sqlQuestionRepo struct {
	db *sqlx.DB
}

// NewSQLQuestionRepo returns a QuestionRepo backed by sqlite or postgres
func NewSQLQuestionRepo(db *sqlx.DB) QuestionRepo {
	return &sqlQuestionRepo{db: db}
}

func (r *sqlQuestionRepo) Create(ctx context.Context, q *model.Question) error {
	args := []interface{}{q.Domain, q.Question, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectOption, q.Explanation}
	query := `INSERT INTO questions (domain, question, option_a, option_b, option_c, option_d, correct_option, explanation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	// Postgres has no LastInsertId
	if r.db.DriverName() == "postgres" {
		err := r.db.QueryRowxContext(ctx, r.db.Rebind(query+" RETURNING id"), args...).Scan(&q.ID)
		if err != nil {
			return fmt.Errorf("failed to create question: %w", err)
		}
		return nil
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	q.ID = id
	return nil
}

func (r *sqlQuestionRepo) GetByID(ctx context.Context, id int64) (*model.Question, error) {
	var q model.Question
	err := r.db.GetContext(ctx, &q, r.db.Rebind("SELECT "+questionColumns+" FROM questions WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question by ID: %w", err)
	}
	return &q, nil
}

func (r *sqlQuestionRepo) Update(ctx context.Context, q *model.Question) error {
	query := `UPDATE questions SET domain = ?, question = ?, option_a = ?, option_b = ?,
		option_c = ?, option_d = ?, correct_option = ?, explanation = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		q.Domain, q.Question, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectOption, q.Explanation, q.ID)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return expectAffected(res)
}

func (r *sqlQuestionRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM questions WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return expectAffected(res)
}

func (r *sqlQuestionRepo) List(ctx context.Context) ([]model.QuestionSummary, error) {
	questions := []model.QuestionSummary{}
	err := r.db.SelectContext(ctx, &questions, "SELECT id, domain, question FROM questions ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

func (r *sqlQuestionRepo) ListDomains(ctx context.Context) ([]model.DomainCount, error) {
	domains := []model.DomainCount{}
	err := r.db.SelectContext(ctx, &domains,
		"SELECT domain, COUNT(*) AS count FROM questions GROUP BY domain ORDER BY domain ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	return domains, nil
}

func (r *sqlQuestionRepo) CountByDomains(ctx context.Context, domains []string) (int, error) {
	query, args, err := r.domainFilter("SELECT COUNT(*) FROM questions", domains, "")
	if err != nil {
		return 0, err
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

func (r *sqlQuestionRepo) SampleIDs(ctx context.Context, domains []string, n int) ([]int64, error) {
	if n <= 0 {
		return []int64{}, nil
	}
	query, args, err := r.domainFilter("SELECT id FROM questions", domains, " ORDER BY RANDOM() LIMIT ?", n)
	if err != nil {
		return nil, err
	}
	ids := []int64{}
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("failed to sample questions: %w", err)
	}
	return ids, nil
}

func (r *sqlQuestionRepo) Random(ctx context.Context) (*model.Question, error) {
	var q model.Question
	err := r.db.GetContext(ctx, &q, "SELECT "+questionColumns+" FROM questions ORDER BY RANDOM() LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get random question: %w", err)
	}
	return &q, nil
}

// domainFilter appends an optional "WHERE domain IN (...)" clause and the
// given suffix, then rebinds the placeholders for the active driver
func (r *sqlQuestionRepo) domainFilter(base string, domains []string, suffix string, extra ...interface{}) (string, []interface{}, error) {
	query := base
	var args []interface{}
	if len(domains) > 0 {
		query += " WHERE domain IN (?)"
		args = append(args, domains)
	}
	query += suffix
	args = append(args, extra...)

	if len(domains) > 0 {
		var err error
		query, args, err = sqlx.In(query, args...)
		if err != nil {
			return "", nil, fmt.Errorf("failed to expand domain filter: %w", err)
		}
	}
	return r.db.Rebind(query), args, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
