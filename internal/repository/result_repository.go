package repository

import (
	"exam_hub_backend/internal/model"

	"gorm.io/gorm"
)

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

func (r *ResultRepository) FindByID(id string) (*model.Result, error) {
	var res model.Result
	err := r.DB.Preload("Exam").Preload("User").
		Where("id = ?", id).First(&res).Error
	return &res, err
}

func (r *ResultRepository) FindByExamAndUser(examID, userID uint) (*model.Result, error) {
	var res model.Result
	err := r.DB.Where("exam_id = ? AND user_id = ?", examID, userID).First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ResultRepository) Update(res *model.Result) error {
	return r.DB.Save(res).Error
}

func (r *ResultRepository) ListByExam(examID uint) ([]model.Result, error) {
	var rs []model.Result
	err := r.DB.Where("exam_id = ?", examID).
		Preload("User").
		Order("submitted_at asc").Find(&rs).Error
	return rs, err
}

func (r *ResultRepository) ListByStudent(userID uint, page, limit int) ([]model.Result, int64, error) {
	var rs []model.Result
	var total int64
	query := r.DB.Model(&model.Result{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Preload("Exam").
		Order("submitted_at desc").Offset(offset).Limit(limit).Find(&rs).Error
	return rs, total, err
}
