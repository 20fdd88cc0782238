package service

import (
	"errors"
	"exam_hub_backend/internal/model"
	"exam_hub_backend/internal/repository"
	"exam_hub_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	Repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{Repo: repo}
}

func (s *UserService) List(actor model.Identity, page, limit int, role string) ([]model.User, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, util.ErrPermissionDenied
	}
	return s.Repo.List(page, limit, role)
}

// SetDisabled blocks or unblocks an account. Disabled students keep their
// assignments and results but cannot log in and are skipped by publishes.
func (s *UserService) SetDisabled(actor model.Identity, userID uint, disabled bool) error {
	if !actor.IsAdmin() {
		return util.ErrPermissionDenied
	}
	user, err := s.Repo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}
	user.Disabled = disabled
	return s.Repo.Update(user)
}
