package service

import (
	"certprep/internal/model"
	"certprep/internal/repository"
	"context"
)

// ResultService exposes the exam history
type ResultService struct {
	repo repository.ResultRepo
}

// NewResultService creates a new result service
func NewResultService(repo repository.ResultRepo) *ResultService {
	return &ResultService{repo: repo}
}

// List returns every result, newest first
func (s *ResultService) List(ctx context.Context) ([]model.Result, error) {
	results, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []model.Result{}
	}
	return results, nil
}

// Stats aggregates the history
func (s *ResultService) Stats(ctx context.Context) (*model.ResultStats, error) {
	return s.repo.Stats(ctx)
}
