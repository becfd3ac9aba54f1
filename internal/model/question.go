package model

import (
	"errors"
	"strings"
)

// Option letters in display order
const (
	OptionA = "A"
	OptionB = "B"
	OptionC = "C"
	OptionD = "D"
)

// OptionLetters lists the canonical option letters
var OptionLetters = []string{OptionA, OptionB, OptionC, OptionD}

// Question is a multiple-choice question from the bank (or generated for an AI exam)
type Question struct {
	ID            int64  `json:"id" db:"id" bson:"_id"`
	Domain        string `json:"domain" db:"domain" bson:"domain"` // Topical category, e.g. "Security and Risk Management"
	Question      string `json:"question" db:"question" bson:"question"`
	OptionA       string `json:"option_a" db:"option_a" bson:"option_a"`
	OptionB       string `json:"option_b" db:"option_b" bson:"option_b"`
	OptionC       string `json:"option_c" db:"option_c" bson:"option_c"`
	OptionD       string `json:"option_d" db:"option_d" bson:"option_d"`
	CorrectOption string `json:"correct_option" db:"correct_option" bson:"correct_option"` // Canonical letter A-D
	Explanation   string `json:"explanation,omitempty" db:"explanation" bson:"explanation,omitempty"`
}

// QuestionSummary is the row shape of the question list screen
type QuestionSummary struct {
	ID       int64  `json:"id" db:"id" bson:"_id"`
	Domain   string `json:"domain" db:"domain" bson:"domain"`
	Question string `json:"question" db:"question" bson:"question"`
}

// DomainCount is a domain label with the number of questions filed under it
type DomainCount struct {
	Domain string `json:"domain" db:"domain" bson:"_id"`
	Count  int    `json:"count" db:"count" bson:"count"`
}

// QuestionView is a question as shown while an exam is running (no answer key)
type QuestionView struct {
	ID       int64             `json:"id"`
	Domain   string            `json:"domain"`
	Question string            `json:"question"`
	Options  map[string]string `json:"options"`
}

var (
	errMissingDomain   = errors.New("domain is required")
	errMissingQuestion = errors.New("question text is required")
	errMissingOption   = errors.New("all four options are required")
	errBadCorrect      = errors.New("correct option must be one of A, B, C, D")
)

// Options returns the option texts keyed by canonical letter
func (q *Question) Options() map[string]string {
	return map[string]string{
		OptionA: q.OptionA,
		OptionB: q.OptionB,
		OptionC: q.OptionC,
		OptionD: q.OptionD,
	}
}

// OptionText returns the text of the option with the given (possibly legacy) marker
func (q *Question) OptionText(option string) string {
	return q.Options()[NormalizeOption(option)]
}

// View strips the answer key and explanation
func (q *Question) View() *QuestionView {
	return &QuestionView{
		ID:       q.ID,
		Domain:   q.Domain,
		Question: q.Question,
		Options:  q.Options(),
	}
}

// Normalize trims every field and rewrites the correct option to its canonical letter
func (q *Question) Normalize() {
	q.Domain = strings.TrimSpace(q.Domain)
	q.Question = strings.TrimSpace(q.Question)
	q.OptionA = strings.TrimSpace(q.OptionA)
	q.OptionB = strings.TrimSpace(q.OptionB)
	q.OptionC = strings.TrimSpace(q.OptionC)
	q.OptionD = strings.TrimSpace(q.OptionD)
	q.CorrectOption = NormalizeOption(q.CorrectOption)
	q.Explanation = strings.TrimSpace(q.Explanation)
}

// Validate reports the first missing or malformed field
func (q *Question) Validate() error {
	if q.Domain == "" {
		return errMissingDomain
	}
	if q.Question == "" {
		return errMissingQuestion
	}
	if q.OptionA == "" || q.OptionB == "" || q.OptionC == "" || q.OptionD == "" {
		return errMissingOption
	}
	if !IsOptionLetter(NormalizeOption(q.CorrectOption)) {
		return errBadCorrect
	}
	return nil
}
