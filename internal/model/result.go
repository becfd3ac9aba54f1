package model

import "time"

// Result is one completed exam attempt
type Result struct {
	ID    int64     `json:"id" db:"id" bson:"_id"`
	Date  time.Time `json:"date" db:"date" bson:"date"` // UTC completion time
	Score int       `json:"score" db:"score" bson:"score"`
	Total int       `json:"total" db:"total" bson:"total"`
}

// Percent returns the score as a percentage of total
func (r *Result) Percent() float64 {
	if r.Total <= 0 {
		return 0
	}
	return float64(r.Score) * 100 / float64(r.Total)
}

// ResultStats aggregates the results history
type ResultStats struct {
	Attempts       int     `json:"attempts" db:"attempts" bson:"attempts"`
	AveragePercent float64 `json:"averagePercent" db:"average_percent" bson:"average_percent"`
	BestPercent    float64 `json:"bestPercent" db:"best_percent" bson:"best_percent"`
	TotalAnswered  int     `json:"totalAnswered" db:"total_answered" bson:"total_answered"`
	TotalCorrect   int     `json:"totalCorrect" db:"total_correct" bson:"total_correct"`
}

// Summary is the final score shown when an exam ends
type Summary struct {
	Score   int     `json:"score"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}
