package repository

import (
	"exam_hub_backend/internal/model"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) Create(exam *model.Exam) error {
	return r.DB.Create(exam).Error
}

func (r *ExamRepository) FindByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.First(&exam, id).Error
	return &exam, err
}

func (r *ExamRepository) Update(exam *model.Exam) error {
	return r.DB.Save(exam).Error
}

func (r *ExamRepository) List(page, limit int, teacherID uint, className string) ([]model.Exam, int64, error) {
	var exams []model.Exam
	var total int64
	query := r.DB.Model(&model.Exam{})
	if teacherID > 0 {
		query = query.Where("teacher_id = ?", teacherID)
	}
	if className != "" {
		query = query.Where("class_name = ?", className)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&exams).Error
	return exams, total, err
}

// IDsByTeacher returns the ids of every exam the teacher authored, for
// scoping listings.
func (r *ExamRepository) IDsByTeacher(teacherID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Exam{}).
		Where("teacher_id = ?", teacherID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *ExamRepository) AttachQuestion(eq *model.ExamQuestion) error {
	return r.DB.Create(eq).Error
}

func (r *ExamRepository) DetachQuestion(examID, questionID uint) error {
	return r.DB.Where("exam_id = ? AND question_id = ?", examID, questionID).
		Delete(&model.ExamQuestion{}).Error
}

// ListExamQuestions returns the join rows in exam order. Callers zip them
// with the question bank rows.
func (r *ExamRepository) ListExamQuestions(examID uint) ([]model.ExamQuestion, error) {
	var eqs []model.ExamQuestion
	err := r.DB.Where("exam_id = ?", examID).
		Order("`order` asc, created_at asc").
		Find(&eqs).Error
	return eqs, err
}

// CountOtherAttachments reports how many other exams still reference the
// question. Used by the delete cascade to spare shared bank questions.
func (r *ExamRepository) CountOtherAttachments(questionID, excludeExamID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ExamQuestion{}).
		Where("question_id = ? AND exam_id <> ?", questionID, excludeExamID).
		Count(&count).Error
	return count, err
}

// DeleteCascade removes the exam with its question attachments, assignments
// and results in one transaction. Questions still attached to another exam
// survive in the bank; a partial cascade never escapes the transaction.
func (r *ExamRepository) DeleteCascade(examID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var eqs []model.ExamQuestion
		if err := tx.Where("exam_id = ?", examID).Find(&eqs).Error; err != nil {
			return err
		}

		for _, eq := range eqs {
			var others int64
			if err := tx.Model(&model.ExamQuestion{}).
				Where("question_id = ? AND exam_id <> ?", eq.QuestionID, examID).
				Count(&others).Error; err != nil {
				return err
			}
			if others == 0 {
				if err := tx.Delete(&model.Question{}, eq.QuestionID).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Where("exam_id = ?", examID).Delete(&model.ExamQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("exam_id = ?", examID).Delete(&model.Result{}).Error; err != nil {
			return err
		}
		if err := tx.Where("exam_id = ?", examID).Delete(&model.Assignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Exam{}, examID).Error
	})
}
