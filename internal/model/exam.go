package model

import "time"

// swagger:model Exam
type Exam struct {
	BaseModel
	Title       string     `gorm:"size:255;not null" json:"title"`
	Subject     string     `gorm:"size:100" json:"subject"`
	ClassName   string     `gorm:"size:50;index" json:"className"` // target cohort
	Duration    int        `gorm:"default:0" json:"duration"`      // minutes
	TotalPoints int        `gorm:"default:0" json:"totalPoints"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	TeacherID   uint       `gorm:"index;type:bigint unsigned" json:"teacherId"`
	IsPublished bool       `gorm:"default:false" json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}

// ExamQuestion attaches a bank question to an exam. Points, when positive,
// overrides the question's default weight for this exam only.
type ExamQuestion struct {
	BaseModel
	ExamID     uint `gorm:"uniqueIndex:idx_exam_question;type:bigint unsigned" json:"examId"`
	QuestionID uint `gorm:"uniqueIndex:idx_exam_question;type:bigint unsigned" json:"questionId"`
	Points     int  `gorm:"default:0" json:"points"`
	Order      int  `gorm:"default:0" json:"order"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}
