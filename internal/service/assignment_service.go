package service

import (
	"errors"
	"exam_hub_backend/internal/model"
	"exam_hub_backend/internal/repository"
	"exam_hub_backend/internal/util"
	"exam_hub_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AssignmentService owns the per-student, per-exam lifecycle:
// PENDING -> IN_PROGRESS (advisory) -> COMPLETED (terminal, set only by the
// submission coordinator). Assignments are never deleted individually; only
// the exam delete cascade removes them.
type AssignmentService struct {
	Repo     *repository.AssignmentRepository
	ExamRepo *repository.ExamRepository
	UserRepo *repository.UserRepository
	Policy   *AccessPolicy
}

func NewAssignmentService(repo *repository.AssignmentRepository, examRepo *repository.ExamRepository, userRepo *repository.UserRepository, policy *AccessPolicy) *AssignmentService {
	return &AssignmentService{Repo: repo, ExamRepo: examRepo, UserRepo: userRepo, Policy: policy}
}

// BulkAssign creates one PENDING assignment per active student of the
// exam's class. Existing pairs are left alone.
func (s *AssignmentService) BulkAssign(exam *model.Exam) (int, error) {
	students, err := s.UserRepo.ListActiveStudentsByClass(exam.ClassName)
	if err != nil {
		return 0, err
	}

	assignments := make([]model.Assignment, 0, len(students))
	for _, st := range students {
		assignments = append(assignments, model.Assignment{
			ExamID: exam.ID,
			UserID: st.ID,
			Status: model.AssignmentPending,
		})
	}

	if err := s.Repo.BulkCreate(assignments); err != nil {
		return 0, err
	}

	logger.Log.Info("exam assigned to class",
		zap.Uint("examId", exam.ID),
		zap.String("className", exam.ClassName),
		zap.Int("students", len(assignments)))

	return len(assignments), nil
}

// Find resolves the eligibility gate for a submission.
func (s *AssignmentService) Find(examID, userID uint) (*model.Assignment, error) {
	a, err := s.Repo.FindByExamAndUser(examID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotAssigned
		}
		return nil, err
	}
	return a, nil
}

// Start records that the student opened the exam. The transition is
// advisory; a submission from PENDING is just as valid.
func (s *AssignmentService) Start(actor model.Identity, examID uint) (*model.Assignment, error) {
	a, err := s.Find(examID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if a.UserID != actor.UserID {
		return nil, util.ErrPermissionDenied
	}
	if a.Status != model.AssignmentPending {
		return a, nil
	}
	if err := s.Repo.UpdateStatus(a.ID, model.AssignmentInProgress); err != nil {
		return nil, err
	}
	a.Status = model.AssignmentInProgress
	return a, nil
}

// List is role-scoped: students see their own assignments, teachers the
// assignments of exams they authored, admins everything.
func (s *AssignmentService) List(actor model.Identity, filter repository.AssignmentFilter, page, limit int) ([]model.Assignment, int64, error) {
	switch {
	case actor.IsAdmin():
		return s.Repo.List(filter, page, limit)
	case actor.IsTeacher():
		examIDs, err := s.ExamRepo.IDsByTeacher(actor.UserID)
		if err != nil {
			return nil, 0, err
		}
		if filter.ExamID > 0 {
			found := false
			for _, id := range examIDs {
				if id == filter.ExamID {
					found = true
					break
				}
			}
			if !found {
				return nil, 0, util.ErrPermissionDenied
			}
			return s.Repo.List(filter, page, limit)
		}
		return s.Repo.ListByExams(examIDs, filter, page, limit)
	case actor.IsStudent():
		filter.UserID = actor.UserID
		return s.Repo.List(filter, page, limit)
	default:
		return nil, 0, util.ErrPermissionDenied
	}
}
