package service

import (
	"certprep/internal/codec"
	"certprep/internal/model"
	"certprep/internal/repository"
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// ExamService runs the exam state machine. It never stores state itself:
// every method takes the session's ExamState and the caller writes it back.
type ExamService struct {
	questions   repository.QuestionRepo
	results     repository.ResultRepo
	generator   Generator
	defaultSize int
	now         func() time.Time
}

// NewExamService creates a new exam service. generator may be nil.
func NewExamService(questions repository.QuestionRepo, results repository.ResultRepo, generator Generator, defaultSize int) *ExamService {
	if defaultSize <= 0 {
		defaultSize = 10
	}
	return &ExamService{
		questions:   questions,
		results:     results,
		generator:   generator,
		defaultSize: defaultSize,
		now:         time.Now,
	}
}

// StartOutcome tells the caller how many questions were actually drawn
type StartOutcome struct {
	Requested int  `json:"requested"`
	Granted   int  `json:"granted"`
	Clamped   bool `json:"clamped"`
}

// Warning is the message shown when the request was clamped
func (o *StartOutcome) Warning() string {
	if !o.Clamped {
		return ""
	}
	return fmt.Sprintf("Only %d questions are available for the selected domains; the exam has %d questions instead of %d.",
		o.Granted, o.Granted, o.Requested)
}

// AnswerOutcome is the immediate result of answering a question
type AnswerOutcome struct {
	Correct  bool `json:"correct"`
	Final    bool `json:"final"`
	Score    int  `json:"score"`
	Answered int  `json:"answered"`
	Total    int  `json:"total"`
}

// DefaultSize is the exam length used when none is requested
func (s *ExamService) DefaultSize() int {
	return s.defaultSize
}

// AIEnabled reports whether AI exams can be started
func (s *ExamService) AIEnabled() bool {
	return s.generator != nil && s.generator.Enabled()
}

// Start draws up to count random questions from the given domains.
// An empty domain list means every domain.
func (s *ExamService) Start(ctx context.Context, domains []string, count int) (*model.ExamState, *StartOutcome, error) {
	domains = cleanDomains(domains)
	if count <= 0 {
		count = s.defaultSize
	}

	available, err := s.questions.CountByDomains(ctx, domains)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count questions: %w", err)
	}
	if available == 0 {
		return nil, nil, ErrEmptyDomain
	}

	outcome := &StartOutcome{Requested: count, Granted: count}
	if count > available {
		outcome.Granted = available
		outcome.Clamped = true
	}

	ids, err := s.questions.SampleIDs(ctx, domains, outcome.Granted)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to draw questions: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil, ErrEmptyDomain
	}
	if len(ids) < outcome.Granted {
		outcome.Granted = len(ids)
		outcome.Clamped = true
	}

	token, err := codec.EncodeIDs(ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode exam: %w", err)
	}

	state := model.NewExamState(model.ModeStored, len(ids))
	state.Token = token

	if outcome.Clamped {
		log.Printf("[Exam] Requested %d questions from %v, clamped to %d", outcome.Requested, domains, outcome.Granted)
	}
	return state, outcome, nil
}

// StartAI asks the generator for an ad hoc exam on topic
func (s *ExamService) StartAI(ctx context.Context, topic string, count int) (*model.ExamState, error) {
	if !s.AIEnabled() {
		return nil, ErrAIDisabled
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyPrompt
	}
	if count <= 0 {
		count = s.defaultSize
	}

	questions, err := s.generator.Generate(ctx, topic, count)
	if err != nil {
		log.Printf("[Exam] AI generation for %q failed: %v", topic, err)
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions returned", ErrGenerationFailed)
	}

	state := model.NewExamState(model.ModeAI, len(questions))
	state.Questions = questions
	return state, nil
}

// Current returns the question waiting for an answer
func (s *ExamService) Current(ctx context.Context, state *model.ExamState) (*model.CurrentQuestion, error) {
	if !state.Active() {
		return nil, ErrRestartRequired
	}
	if state.Current >= state.Total {
		return nil, ErrExamComplete
	}

	q, err := s.questionAt(ctx, state, state.Current)
	if err != nil {
		return nil, err
	}

	return &model.CurrentQuestion{
		Question: q.View(),
		Position: state.Current + 1,
		Total:    state.Total,
		Score:    state.Score,
		Mode:     state.Mode,
	}, nil
}

// Answer scores selection against the current question and advances the exam.
// present is false when the user submitted no selection at all. Answering the
// last question appends a Result.
func (s *ExamService) Answer(ctx context.Context, state *model.ExamState, selection string, present bool) (*AnswerOutcome, error) {
	if !state.Active() || state.Current >= state.Total {
		return nil, ErrRestartRequired
	}

	q, err := s.questionAt(ctx, state, state.Current)
	if err != nil {
		return nil, err
	}

	selected := ""
	if present {
		selected = model.NormalizeOption(selection)
	}
	correct := selected != "" && model.SameOption(selected, q.CorrectOption)

	if correct {
		state.Score++
	}
	state.LastIndex = state.Current
	state.LastAnswer = selected
	state.LastCorrect = correct
	state.Current++
	state.Phase = model.PhaseReviewing

	outcome := &AnswerOutcome{
		Correct:  correct,
		Final:    state.Current == state.Total,
		Score:    state.Score,
		Answered: state.Current,
		Total:    state.Total,
	}

	if outcome.Final {
		result := &model.Result{
			Date:  s.now().UTC(),
			Score: state.Score,
			Total: state.Total,
		}
		if err := s.results.Create(ctx, result); err != nil {
			return nil, fmt.Errorf("failed to record result: %w", err)
		}
		log.Printf("[Exam] Completed %s exam: %d/%d", state.Mode, state.Score, state.Total)
	}

	return outcome, nil
}

// Review describes the last answered question. It does not change the state.
func (s *ExamService) Review(ctx context.Context, state *model.ExamState) (*model.Review, error) {
	if !state.Active() || state.Phase != model.PhaseReviewing {
		return nil, ErrRestartRequired
	}
	if state.LastIndex < 0 || state.LastIndex >= state.Total {
		return nil, ErrRestartRequired
	}

	q, err := s.questionAt(ctx, state, state.LastIndex)
	if err != nil {
		return nil, err
	}

	correctOption := model.NormalizeOption(q.CorrectOption)
	return &model.Review{
		Question:      q,
		Selected:      state.LastAnswer,
		SelectedText:  q.OptionText(state.LastAnswer),
		CorrectOption: correctOption,
		CorrectText:   q.OptionText(correctOption),
		Correct:       state.LastCorrect,
		Final:         state.Current == state.Total,
		Position:      state.LastIndex + 1,
		Total:         state.Total,
		Score:         state.Score,
	}, nil
}

// Finish returns the final score and marks the exam completed. The caller
// must clear the session afterwards.
func (s *ExamService) Finish(state *model.ExamState) (*model.Summary, error) {
	if !state.Finished() {
		return nil, ErrRestartRequired
	}
	summary := state.Summary()
	state.Phase = model.PhaseCompleted
	return summary, nil
}

// questionAt resolves the question at index idx of the exam
func (s *ExamService) questionAt(ctx context.Context, state *model.ExamState, idx int) (*model.Question, error) {
	if idx < 0 || idx >= state.Total {
		return nil, ErrRestartRequired
	}

	if state.Mode == model.ModeAI {
		q := state.Questions[idx]
		return &q, nil
	}

	ids, ok := codec.DecodeIDs(state.Token)
	if !ok || len(ids) != state.Total {
		return nil, ErrRestartRequired
	}
	q, err := s.questions.GetByID(ctx, ids[idx])
	if err != nil {
		return nil, fmt.Errorf("failed to load question %d: %w", ids[idx], err)
	}
	if q == nil {
		// Deleted while the exam was running
		return nil, ErrRestartRequired
	}
	return q, nil
}

func cleanDomains(domains []string) []string {
	out := make([]string, 0, len(domains))
	seen := make(map[string]bool, len(domains))
	for _, d := range domains {
		d = strings.TrimSpace(d)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
