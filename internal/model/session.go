package model

import "time"

// ExamStateVersion is bumped whenever the layout of ExamState changes
const ExamStateVersion = 1

// ExamPhase is the position of a session in the exam lifecycle
type ExamPhase string

const (
	PhaseNone       ExamPhase = ""            // No exam in the session
	PhaseInProgress ExamPhase = "in_progress" // Waiting for an answer to Questions[Current]
	PhaseReviewing  ExamPhase = "reviewing"   // Last answer recorded, review available
	PhaseCompleted  ExamPhase = "completed"   // Summary shown, state about to be cleared
)

// ExamMode tells where the exam questions live
type ExamMode string

const (
	ModeStored ExamMode = "stored" // Question ids drawn from the bank, kept as a codec token
	ModeAI     ExamMode = "ai"     // Generated questions kept inline, never persisted
)

// ExamState is the whole exam held in a user's session. It is written back as one value.
type ExamState struct {
	Version     int        `json:"v"`
	Mode        ExamMode   `json:"mode"`
	Phase       ExamPhase  `json:"phase"`
	Token       string     `json:"token,omitempty"`     // Stored mode: encoded question id sequence
	Questions   []Question `json:"questions,omitempty"` // AI mode: full question snapshots
	Total       int        `json:"total"`
	Current     int        `json:"current"`   // 0-based index of the next question to answer
	Score       int        `json:"score"`     // Correct answers so far
	LastIndex   int        `json:"lastIndex"` // Index of the last answered question, -1 before the first answer
	LastAnswer  string     `json:"lastAnswer,omitempty"`
	LastCorrect bool       `json:"lastCorrect,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
}

// NewExamState returns a fresh in-progress exam
func NewExamState(mode ExamMode, total int) *ExamState {
	return &ExamState{
		Version:   ExamStateVersion,
		Mode:      mode,
		Phase:     PhaseInProgress,
		Total:     total,
		LastIndex: -1,
		StartedAt: time.Now().UTC(),
	}
}

// Active reports whether the state describes a usable exam
func (s *ExamState) Active() bool {
	if s == nil || s.Version != ExamStateVersion {
		return false
	}
	if s.Phase != PhaseInProgress && s.Phase != PhaseReviewing {
		return false
	}
	if s.Total <= 0 || s.Current < 0 || s.Current > s.Total || s.Score > s.Current {
		return false
	}
	if s.Mode == ModeAI {
		return len(s.Questions) == s.Total
	}
	return s.Mode == ModeStored && s.Token != ""
}

// Finished reports whether every question has been answered
func (s *ExamState) Finished() bool {
	return s.Active() && s.Current == s.Total
}

// Summary returns the score so far
func (s *ExamState) Summary() *Summary {
	sum := &Summary{Score: s.Score, Total: s.Total}
	if s.Total > 0 {
		sum.Percent = float64(s.Score) * 100 / float64(s.Total)
	}
	return sum
}

// Review is what the user sees right after answering
type Review struct {
	Question      *Question `json:"question"`
	Selected      string    `json:"selected"`
	SelectedText  string    `json:"selectedText,omitempty"`
	CorrectOption string    `json:"correctOption"`
	CorrectText   string    `json:"correctText"`
	Correct       bool      `json:"correct"`
	Final         bool      `json:"final"` // Last question answered, next stop is the summary
	Position      int       `json:"position"`
	Total         int       `json:"total"`
	Score         int       `json:"score"`
}

// CurrentQuestion is the question to answer next and where it sits in the exam
type CurrentQuestion struct {
	Question *QuestionView `json:"question"`
	Position int           `json:"position"` // 1-based
	Total    int           `json:"total"`
	Score    int           `json:"score"`
	Mode     ExamMode      `json:"mode"`
}
