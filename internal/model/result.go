package model

import (
	"encoding/json"
	"time"
)

// QuestionOutcome is one graded answer inside a Result. Only the question id
// is kept as a reference; the full question is joined back on read.
type QuestionOutcome struct {
	QuestionID   uint            `json:"questionId"`
	Answer       json.RawMessage `json:"answer,omitempty"` // raw student answer, shape depends on type
	IsCorrect    bool            `json:"isCorrect"`
	PointsEarned int             `json:"pointsEarned"`
	Feedback     string          `json:"feedback,omitempty"`
}

// Result is the persisted outcome of one submission. Created exactly once
// per (examId, userId); the unique index backs that up against races.
// Score is always a 0-100 integer percentage.
// swagger:model Result
type Result struct {
	UUIDBase
	ExamID       uint              `gorm:"uniqueIndex:idx_result_exam_user;type:bigint unsigned" json:"examId"`
	UserID       uint              `gorm:"uniqueIndex:idx_result_exam_user;type:bigint unsigned" json:"userId"`
	Score        int               `gorm:"not null" json:"score"`
	EarnedPoints int               `gorm:"not null" json:"earnedPoints"`
	TotalPoints  int               `gorm:"not null" json:"totalPoints"`
	Outcomes     []QuestionOutcome `gorm:"serializer:json" json:"outcomes"`
	Feedback     string            `gorm:"type:text" json:"feedback"`
	SubmittedAt  time.Time         `json:"submittedAt"`

	Exam *Exam `gorm:"foreignKey:ExamID" json:"exam,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Result) TableName() string {
	return "results"
}

// Passed reports whether the score clears the passing line.
func (r *Result) Passed() bool {
	return r.Score >= PassingScore
}

// PassingScore is the score a Result must reach to count as passed.
const PassingScore = 60
