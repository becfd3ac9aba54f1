package service

import (
	"certprep/internal/model"
	"certprep/internal/repository"
	"context"
	"errors"
	"sort"
	"time"
)

// memQuestions is an in-memory QuestionRepo. SampleIDs returns the lowest ids
// so tests are deterministic.
type memQuestions struct {
	next int64
	rows map[int64]model.Question
}

func newMemQuestions() *memQuestions {
	return &memQuestions{rows: make(map[int64]model.Question)}
}

func (m *memQuestions) add(domain, correct string) int64 {
	q := model.Question{
		Domain:        domain,
		Question:      "Question about " + domain,
		OptionA:       "alpha",
		OptionB:       "bravo",
		OptionC:       "charlie",
		OptionD:       "delta",
		CorrectOption: correct,
		Explanation:   "because",
	}
	_ = m.Create(context.Background(), &q)
	return q.ID
}

func (m *memQuestions) Create(ctx context.Context, q *model.Question) error {
	m.next++
	q.ID = m.next
	m.rows[q.ID] = *q
	return nil
}

func (m *memQuestions) GetByID(ctx context.Context, id int64) (*model.Question, error) {
	q, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (m *memQuestions) Update(ctx context.Context, q *model.Question) error {
	if _, ok := m.rows[q.ID]; !ok {
		return repository.ErrNotFound
	}
	m.rows[q.ID] = *q
	return nil
}

func (m *memQuestions) Delete(ctx context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memQuestions) ids(domains []string) []int64 {
	want := make(map[string]bool, len(domains))
	for _, d := range domains {
		want[d] = true
	}
	var ids []int64
	for id, q := range m.rows {
		if len(domains) == 0 || want[q.Domain] {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *memQuestions) List(ctx context.Context) ([]model.QuestionSummary, error) {
	var out []model.QuestionSummary
	for _, id := range m.ids(nil) {
		q := m.rows[id]
		out = append(out, model.QuestionSummary{ID: q.ID, Domain: q.Domain, Question: q.Question})
	}
	return out, nil
}

func (m *memQuestions) ListDomains(ctx context.Context) ([]model.DomainCount, error) {
	counts := make(map[string]int)
	for _, q := range m.rows {
		counts[q.Domain]++
	}
	var out []model.DomainCount
	for d, n := range counts {
		out = append(out, model.DomainCount{Domain: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Domain < out[j].Domain })
	return out, nil
}

func (m *memQuestions) CountByDomains(ctx context.Context, domains []string) (int, error) {
	return len(m.ids(domains)), nil
}

func (m *memQuestions) SampleIDs(ctx context.Context, domains []string, n int) ([]int64, error) {
	ids := m.ids(domains)
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids, nil
}

func (m *memQuestions) Random(ctx context.Context) (*model.Question, error) {
	ids := m.ids(nil)
	if len(ids) == 0 {
		return nil, nil
	}
	return m.GetByID(ctx, ids[0])
}

type memResults struct {
	rows []model.Result
	err  error
}

func (m *memResults) Create(ctx context.Context, r *model.Result) error {
	if m.err != nil {
		return m.err
	}
	r.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, *r)
	return nil
}

func (m *memResults) List(ctx context.Context) ([]model.Result, error) {
	out := make([]model.Result, len(m.rows))
	for i := range m.rows {
		out[len(m.rows)-1-i] = m.rows[i]
	}
	return out, nil
}

func (m *memResults) Stats(ctx context.Context) (*model.ResultStats, error) {
	return &model.ResultStats{Attempts: len(m.rows)}, nil
}

type stubGenerator struct {
	enabled   bool
	questions []model.Question
	err       error
}

func (g *stubGenerator) Enabled() bool { return g.enabled }

func (g *stubGenerator) Generate(ctx context.Context, topic string, count int) ([]model.Question, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.questions, nil
}

var errStoreDown = errors.New("store down")

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
