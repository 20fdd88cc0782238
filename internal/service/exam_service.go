package service

import (
	"errors"
	"exam_hub_backend/internal/model"
	"exam_hub_backend/internal/repository"
	"exam_hub_backend/internal/util"
	"exam_hub_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ExamService covers the authoring side: exam CRUD, the reusable question
// bank, attaching questions with per-exam weights, publishing to a class
// and the atomic delete cascade.
type ExamService struct {
	Repo          *repository.ExamRepository
	QuestionRepo  *repository.QuestionRepository
	AssignmentSvc *AssignmentService
	Policy        *AccessPolicy
	Stats         *StatisticsService
}

func NewExamService(repo *repository.ExamRepository, questionRepo *repository.QuestionRepository, assignmentSvc *AssignmentService, policy *AccessPolicy, stats *StatisticsService) *ExamService {
	return &ExamService{Repo: repo, QuestionRepo: questionRepo, AssignmentSvc: assignmentSvc, Policy: policy, Stats: stats}
}

type ExamReq struct {
	Title       *string    `json:"title"`
	Subject     *string    `json:"subject"`
	ClassName   *string    `json:"className"`
	Duration    *int       `json:"duration"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

func (s *ExamService) CreateExam(actor model.Identity, req ExamReq) (*model.Exam, error) {
	if actor.IsStudent() {
		return nil, util.ErrPermissionDenied
	}
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}

	exam := &model.Exam{
		Title:     *req.Title,
		TeacherID: actor.UserID,
	}
	if req.Subject != nil {
		exam.Subject = *req.Subject
	}
	if req.ClassName != nil {
		exam.ClassName = *req.ClassName
	}
	if req.Duration != nil {
		exam.Duration = *req.Duration
	}
	exam.ScheduledAt = req.ScheduledAt

	if err := s.Repo.Create(exam); err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) UpdateExam(actor model.Identity, examID uint, req ExamReq) (*model.Exam, error) {
	exam, err := s.find(examID)
	if err != nil {
		return nil, err
	}
	if err := s.Policy.CanManageExam(actor, exam); err != nil {
		return nil, err
	}

	if req.Title != nil {
		exam.Title = *req.Title
	}
	if req.Subject != nil {
		exam.Subject = *req.Subject
	}
	if req.ClassName != nil {
		exam.ClassName = *req.ClassName
	}
	if req.Duration != nil {
		exam.Duration = *req.Duration
	}
	if req.ScheduledAt != nil {
		exam.ScheduledAt = req.ScheduledAt
	}

	if err := s.Repo.Update(exam); err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) List(actor model.Identity, page, limit int) ([]model.Exam, int64, error) {
	switch {
	case actor.IsAdmin():
		return s.Repo.List(page, limit, 0, "")
	case actor.IsTeacher():
		return s.Repo.List(page, limit, actor.UserID, "")
	default:
		return nil, 0, util.ErrPermissionDenied
	}
}

// ExamQuestionView is a question with its effective weight for one exam.
// The answer key rides along for staff reads only.
type ExamQuestionView struct {
	ID        uint               `json:"id"`
	Type      model.QuestionType `json:"type"`
	Content   string             `json:"content"`
	Options   []model.Option     `json:"options,omitempty"`
	Points    int                `json:"points"`
	AnswerKey *model.AnswerKey   `json:"answerKey,omitempty"`
}

// GetExam returns the exam with its ordered question set for staff.
func (s *ExamService) GetExam(actor model.Identity, examID uint) (*model.Exam, []ExamQuestionView, error) {
	exam, err := s.find(examID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.Policy.CanManageExam(actor, exam); err != nil {
		return nil, nil, err
	}

	views, err := s.questionViews(examID, true)
	if err != nil {
		return nil, nil, err
	}
	return exam, views, nil
}

// StudentView returns the exam with its question set for an assigned
// student. Answer keys are stripped unconditionally: a student-facing
// payload never carries correct answers.
func (s *ExamService) StudentView(actor model.Identity, examID uint) (*model.Exam, []ExamQuestionView, error) {
	if !actor.IsStudent() {
		return nil, nil, util.ErrPermissionDenied
	}
	exam, err := s.find(examID)
	if err != nil {
		return nil, nil, err
	}
	if !exam.IsPublished {
		return nil, nil, util.ErrExamNotPublished
	}
	if _, err := s.AssignmentSvc.Find(examID, actor.UserID); err != nil {
		return nil, nil, err
	}

	views, err := s.questionViews(examID, false)
	if err != nil {
		return nil, nil, err
	}
	return exam, views, nil
}

func (s *ExamService) questionViews(examID uint, withKey bool) ([]ExamQuestionView, error) {
	set, err := questionSet(s.Repo, s.QuestionRepo, examID)
	if err != nil {
		return nil, err
	}
	views := make([]ExamQuestionView, 0, len(set))
	for _, wq := range set {
		v := ExamQuestionView{
			ID:      wq.Question.ID,
			Type:    wq.Question.Type,
			Content: wq.Question.Content,
			Options: wq.Question.Options,
			Points:  wq.Points,
		}
		if withKey {
			key := wq.Question.AnswerKey
			v.AnswerKey = &key
		}
		views = append(views, v)
	}
	return views, nil
}

// Publish opens the exam to its class and fans out PENDING assignments to
// every active student of that class.
func (s *ExamService) Publish(actor model.Identity, examID uint) (int, error) {
	exam, err := s.find(examID)
	if err != nil {
		return 0, err
	}
	if err := s.Policy.CanManageExam(actor, exam); err != nil {
		return 0, err
	}

	if !exam.IsPublished {
		now := time.Now()
		exam.IsPublished = true
		exam.PublishedAt = &now
		if err := s.Repo.Update(exam); err != nil {
			return 0, err
		}
	}

	return s.AssignmentSvc.BulkAssign(exam)
}

// DeleteExam removes the exam and everything hanging off it in one
// transaction.
func (s *ExamService) DeleteExam(actor model.Identity, examID uint) error {
	exam, err := s.find(examID)
	if err != nil {
		return err
	}
	if err := s.Policy.CanManageExam(actor, exam); err != nil {
		return err
	}

	if err := s.Repo.DeleteCascade(examID); err != nil {
		return err
	}
	s.Stats.InvalidateCache(examID)

	logger.Log.Info("exam deleted with cascade",
		zap.Uint("examId", examID), zap.Uint("byUser", actor.UserID))
	return nil
}

type QuestionReq struct {
	Type      model.QuestionType `json:"type" binding:"required"`
	Content   string             `json:"content" binding:"required"`
	Options   []model.Option     `json:"options"`
	AnswerKey model.AnswerKey    `json:"answerKey"`
	Points    int                `json:"points"`
}

// CreateQuestion adds a reusable question to the caller's bank. The answer
// key's shape is validated here so the grading path can trust stored keys.
func (s *ExamService) CreateQuestion(actor model.Identity, req QuestionReq) (*model.Question, error) {
	if actor.IsStudent() {
		return nil, util.ErrPermissionDenied
	}
	if err := req.AnswerKey.Validate(req.Type); err != nil {
		return nil, err
	}

	points := req.Points
	if points <= 0 {
		points = 1
	}

	q := &model.Question{
		OwnerID:   actor.UserID,
		Type:      req.Type,
		Content:   req.Content,
		Options:   req.Options,
		AnswerKey: req.AnswerKey,
		Points:    points,
	}
	if err := s.QuestionRepo.Create(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *ExamService) UpdateQuestion(actor model.Identity, questionID uint, req QuestionReq) (*model.Question, error) {
	q, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	if !actor.IsAdmin() && q.OwnerID != actor.UserID {
		return nil, util.ErrPermissionDenied
	}
	if err := req.AnswerKey.Validate(req.Type); err != nil {
		return nil, err
	}

	q.Type = req.Type
	q.Content = req.Content
	q.Options = req.Options
	q.AnswerKey = req.AnswerKey
	if req.Points > 0 {
		q.Points = req.Points
	}

	if err := s.QuestionRepo.Update(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *ExamService) ListBank(actor model.Identity, page, limit int) ([]model.Question, int64, error) {
	if actor.IsStudent() {
		return nil, 0, util.ErrPermissionDenied
	}
	ownerID := actor.UserID
	if actor.IsAdmin() {
		ownerID = 0
	}
	return s.QuestionRepo.ListBank(ownerID, page, limit)
}

// AttachQuestion links a bank question to an exam, optionally overriding
// its weight, and refreshes the exam's total.
func (s *ExamService) AttachQuestion(actor model.Identity, examID, questionID uint, points, order int) error {
	exam, err := s.find(examID)
	if err != nil {
		return err
	}
	if err := s.Policy.CanManageExam(actor, exam); err != nil {
		return err
	}
	if _, err := s.QuestionRepo.FindByID(questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}

	eq := &model.ExamQuestion{
		ExamID:     examID,
		QuestionID: questionID,
		Points:     points,
		Order:      order,
	}
	if err := s.Repo.AttachQuestion(eq); err != nil {
		return err
	}
	return s.refreshTotalPoints(exam)
}

func (s *ExamService) DetachQuestion(actor model.Identity, examID, questionID uint) error {
	exam, err := s.find(examID)
	if err != nil {
		return err
	}
	if err := s.Policy.CanManageExam(actor, exam); err != nil {
		return err
	}
	if err := s.Repo.DetachQuestion(examID, questionID); err != nil {
		return err
	}
	return s.refreshTotalPoints(exam)
}

func (s *ExamService) refreshTotalPoints(exam *model.Exam) error {
	set, err := questionSet(s.Repo, s.QuestionRepo, exam.ID)
	if err != nil {
		return err
	}
	total := 0
	for _, wq := range set {
		total += wq.Points
	}
	exam.TotalPoints = total
	return s.Repo.Update(exam)
}

func (s *ExamService) find(examID uint) (*model.Exam, error) {
	exam, err := s.Repo.FindByID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}
	return exam, nil
}
