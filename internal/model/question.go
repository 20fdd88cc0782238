package model

import (
	"fmt"
	"strings"
)

type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	FreeText       QuestionType = "free_text"
	Numeric        QuestionType = "numeric"
)

// Option is one selectable choice of a select-type question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// AnswerKey is the correct answer, tagged by question type. Exactly one of
// the payload fields is meaningful for a given type.
type AnswerKey struct {
	Type      QuestionType `json:"type"`
	OptionID  string       `json:"optionId,omitempty"`
	OptionIDs []string     `json:"optionIds,omitempty"`
	Text      string       `json:"text,omitempty"`
	Number    float64      `json:"number,omitempty"`
}

// Validate rejects keys whose shape does not match the question type.
// Enforced at authoring time; the grading path trusts stored keys.
func (k AnswerKey) Validate(qt QuestionType) error {
	if k.Type != qt {
		return fmt.Errorf("answer key type %q does not match question type %q", k.Type, qt)
	}
	switch qt {
	case SingleChoice:
		if k.OptionID == "" {
			return fmt.Errorf("single_choice key requires optionId")
		}
	case MultipleChoice:
		if len(k.OptionIDs) == 0 {
			return fmt.Errorf("multiple_choice key requires optionIds")
		}
	case FreeText:
		if strings.TrimSpace(k.Text) == "" {
			return fmt.Errorf("free_text key requires text")
		}
	case Numeric:
		// zero is a legal numeric answer, nothing to check
	default:
		return fmt.Errorf("unknown question type %q", qt)
	}
	return nil
}

// Question lives in a teacher's bank and is attached to exams through
// ExamQuestion. Points is the default weight; the join may override it.
// swagger:model Question
type Question struct {
	BaseModel
	OwnerID   uint         `gorm:"index;type:bigint unsigned" json:"ownerId"`
	Type      QuestionType `gorm:"size:50;not null" json:"type"`
	Content   string       `gorm:"type:text;not null" json:"content"`
	Options   []Option     `gorm:"serializer:json" json:"options,omitempty"`
	AnswerKey AnswerKey    `gorm:"serializer:json" json:"answerKey"`
	Points    int          `gorm:"default:1" json:"points"`
}

func (Question) TableName() string {
	return "questions"
}

// EffectivePoints applies the per-exam override from the join row.
func (q *Question) EffectivePoints(override int) int {
	if override > 0 {
		return override
	}
	if q.Points > 0 {
		return q.Points
	}
	return 1
}
