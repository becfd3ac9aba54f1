package service

import (
	"certprep/internal/model"
	"certprep/internal/repository"
	"context"
	"errors"
	"fmt"
	"log"
)

// QuestionService handles question bank administration and flashcards
type QuestionService struct {
	repo repository.QuestionRepo
}

// NewQuestionService creates a new question service
func NewQuestionService(repo repository.QuestionRepo) *QuestionService {
	return &QuestionService{repo: repo}
}

// Create validates and stores a new question
func (s *QuestionService) Create(ctx context.Context, q *model.Question) (*model.Question, error) {
	q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuestion, err)
	}
	q.ID = 0
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	log.Printf("[Question] Created question %d in %q", q.ID, q.Domain)
	return q, nil
}

// Get returns a question by id
func (s *QuestionService) Get(ctx context.Context, id int64) (*model.Question, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if q == nil {
		return nil, ErrQuestionNotFound
	}
	return q, nil
}

// Update replaces every field of question id
func (s *QuestionService) Update(ctx context.Context, id int64, q *model.Question) (*model.Question, error) {
	q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuestion, err)
	}
	q.ID = id
	if err := s.repo.Update(ctx, q); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return q, nil
}

// Delete removes question id. Exams in progress that reference it will ask
// the user to restart.
func (s *QuestionService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to delete question: %w", err)
	}
	log.Printf("[Question] Deleted question %d", id)
	return nil
}

// List returns every question ordered by id
func (s *QuestionService) List(ctx context.Context) ([]model.QuestionSummary, error) {
	return s.repo.List(ctx)
}

// Domains lists distinct domains with their question counts
func (s *QuestionService) Domains(ctx context.Context) ([]model.DomainCount, error) {
	return s.repo.ListDomains(ctx)
}

// Flashcard returns one random question with its answer, or nil when the bank is empty
func (s *QuestionService) Flashcard(ctx context.Context) (*model.Question, error) {
	q, err := s.repo.Random(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to draw flashcard: %w", err)
	}
	if q != nil {
		q.CorrectOption = model.NormalizeOption(q.CorrectOption)
	}
	return q, nil
}
