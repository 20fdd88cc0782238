package repository

import (
	"exam_hub_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

// BulkCreate inserts one assignment per student. Pairs that already have an
// assignment are skipped, so republishing an exam is harmless.
func (r *AssignmentRepository) BulkCreate(assignments []model.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i := range assignments {
			var existing model.Assignment
			err := tx.Where("exam_id = ? AND user_id = ?", assignments[i].ExamID, assignments[i].UserID).
				First(&existing).Error
			if err == nil {
				continue
			}
			if err != gorm.ErrRecordNotFound {
				return err
			}
			if err := tx.Create(&assignments[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AssignmentRepository) FindByID(id uint) (*model.Assignment, error) {
	var a model.Assignment
	err := r.DB.First(&a, id).Error
	return &a, err
}

func (r *AssignmentRepository) FindByExamAndUser(examID, userID uint) (*model.Assignment, error) {
	var a model.Assignment
	err := r.DB.Where("exam_id = ? AND user_id = ?", examID, userID).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentRepository) UpdateStatus(id uint, status model.AssignmentStatus) error {
	return r.DB.Model(&model.Assignment{}).Where("id = ?", id).
		Update("status", status).Error
}

type AssignmentFilter struct {
	UserID uint
	ExamID uint
	Status model.AssignmentStatus
}

func (r *AssignmentRepository) List(f AssignmentFilter, page, limit int) ([]model.Assignment, int64, error) {
	var as []model.Assignment
	var total int64
	query := r.DB.Model(&model.Assignment{})
	if f.UserID > 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.ExamID > 0 {
		query = query.Where("exam_id = ?", f.ExamID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Preload("Exam").Preload("User").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&as).Error
	return as, total, err
}

// ListByExams scopes a listing to a teacher's own exams.
func (r *AssignmentRepository) ListByExams(examIDs []uint, f AssignmentFilter, page, limit int) ([]model.Assignment, int64, error) {
	if len(examIDs) == 0 {
		return nil, 0, nil
	}
	var as []model.Assignment
	var total int64
	query := r.DB.Model(&model.Assignment{}).Where("exam_id IN ?", examIDs)
	if f.UserID > 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Preload("Exam").Preload("User").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&as).Error
	return as, total, err
}
