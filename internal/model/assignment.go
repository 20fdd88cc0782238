package model

import "time"

type AssignmentStatus string

const (
	AssignmentPending    AssignmentStatus = "PENDING"
	AssignmentInProgress AssignmentStatus = "IN_PROGRESS"
	AssignmentCompleted  AssignmentStatus = "COMPLETED"
)

// Assignment binds one student to one exam. The composite unique index is
// what the whole submission lifecycle hangs on: at most one row per
// (examId, userId).
// swagger:model Assignment
type Assignment struct {
	BaseModel
	ExamID      uint             `gorm:"uniqueIndex:idx_assignment_exam_user;type:bigint unsigned" json:"examId"`
	UserID      uint             `gorm:"uniqueIndex:idx_assignment_exam_user;type:bigint unsigned" json:"userId"`
	Status      AssignmentStatus `gorm:"size:20;default:'PENDING'" json:"status"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`

	Exam *Exam `gorm:"foreignKey:ExamID" json:"exam,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Assignment) TableName() string {
	return "assignments"
}
