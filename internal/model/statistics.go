package model

// ExamStatistics is derived on demand from all Results of an exam.
// It is never persisted; the service may cache it.
// swagger:model ExamStatistics
type ExamStatistics struct {
	ExamID            uint           `json:"examId"`
	SubmissionCount   int            `json:"submissionCount"`
	AverageScore      float64        `json:"averageScore"`
	PassingRate       float64        `json:"passingRate"` // percentage of results with score >= 60
	HighestScore      int            `json:"highestScore"`
	LowestScore       int            `json:"lowestScore"`
	ScoreDistribution []ScoreBucket  `json:"scoreDistribution"`
	QuestionStats     []QuestionStat `json:"questionStats"`
}

// ScoreBucket is one of five fixed 20-point-wide buckets. All buckets are
// half-open except the last, which includes 100.
type ScoreBucket struct {
	Label string `json:"label"` // e.g. "60-80"
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Count int    `json:"count"`
}

// QuestionStat aggregates one question's outcomes across all submitters.
type QuestionStat struct {
	QuestionID    uint    `json:"questionId"`
	Content       string  `json:"content"`
	AnsweredCount int     `json:"answeredCount"`
	CorrectCount  int     `json:"correctCount"`
	CorrectRate   float64 `json:"correctRate"` // percentage, 0 if nobody answered
	Difficulty    string  `json:"difficulty"`  // Easy / Medium / Hard
}
