package repository

import (
	"certprep/internal/model"
	"context"
	"errors"
)

// ErrNotFound is returned when an update or delete matches no row
var ErrNotFound = errors.New("record not found")

type QuestionRepo interface {
	// Basic CRUD Operations
	Create(ctx context.Context, question *model.Question) error
	GetByID(ctx context.Context, id int64) (*model.Question, error)
	Update(ctx context.Context, question *model.Question) error
	Delete(ctx context.Context, id int64) error

	// Listing
	List(ctx context.Context) ([]model.QuestionSummary, error)
	ListDomains(ctx context.Context) ([]model.DomainCount, error)

	// Exam Selection. An empty domain list matches every question.
	CountByDomains(ctx context.Context, domains []string) (int, error)
	SampleIDs(ctx context.Context, domains []string, n int) ([]int64, error)
	Random(ctx context.Context) (*model.Question, error)
}

type ResultRepo interface {
	Create(ctx context.Context, result *model.Result) error
	List(ctx context.Context) ([]model.Result, error) // Most recent first
	Stats(ctx context.Context) (*model.ResultStats, error)
}
