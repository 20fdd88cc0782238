package service

import (
	"encoding/json"
	"errors"
	"exam_hub_backend/internal/model"
	"exam_hub_backend/internal/repository"
	"exam_hub_backend/internal/util"
	"exam_hub_backend/pkg/logger"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResultService reads and amends persisted results. Reads are defensive:
// question context is rebuilt from the stored outcome references with a
// fallback lookup over the exam's current question set, and a stale
// reference degrades to a placeholder instead of failing the whole read.
type ResultService struct {
	Repo         *repository.ResultRepository
	ExamRepo     *repository.ExamRepository
	QuestionRepo *repository.QuestionRepository
	Policy       *AccessPolicy
	Stats        *StatisticsService
}

func NewResultService(repo *repository.ResultRepository, examRepo *repository.ExamRepository, questionRepo *repository.QuestionRepository, policy *AccessPolicy, stats *StatisticsService) *ResultService {
	return &ResultService{Repo: repo, ExamRepo: examRepo, QuestionRepo: questionRepo, Policy: policy, Stats: stats}
}

// OutcomeDetail is one graded question rendered with its context.
// CorrectAnswer is only populated for staff.
type OutcomeDetail struct {
	QuestionID    uint               `json:"questionId"`
	Content       string             `json:"content"`
	Type          model.QuestionType `json:"type,omitempty"`
	Options       []model.Option     `json:"options,omitempty"`
	Answer        json.RawMessage    `json:"answer,omitempty"`
	IsCorrect     bool               `json:"isCorrect"`
	PointsEarned  int                `json:"pointsEarned"`
	Feedback      string             `json:"feedback,omitempty"`
	CorrectAnswer *model.AnswerKey   `json:"correctAnswer,omitempty"`
}

type ResultDetail struct {
	ID           string          `json:"id"`
	ExamID       uint            `json:"examId"`
	UserID       uint            `json:"userId"`
	ExamTitle    string          `json:"examTitle"`
	StudentName  string          `json:"studentName,omitempty"`
	Score        int             `json:"score"`
	EarnedPoints int             `json:"earnedPoints"`
	TotalPoints  int             `json:"totalPoints"`
	Passed       bool            `json:"passed"`
	Feedback     string          `json:"feedback,omitempty"`
	SubmittedAt  time.Time       `json:"submittedAt"`
	Outcomes     []OutcomeDetail `json:"outcomes"`
}

func (s *ResultService) GetByID(actor model.Identity, resultID string) (*ResultDetail, error) {
	res, err := s.Repo.FindByID(resultID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResultNotFound
		}
		return nil, err
	}

	exam := res.Exam
	if exam == nil {
		exam, err = s.ExamRepo.FindByID(res.ExamID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if err := s.Policy.CanViewResult(actor, res, exam); err != nil {
		return nil, err
	}

	qmap := s.resolveQuestions(res)

	detail := &ResultDetail{
		ID:           res.ID,
		ExamID:       res.ExamID,
		UserID:       res.UserID,
		Score:        res.Score,
		EarnedPoints: res.EarnedPoints,
		TotalPoints:  res.TotalPoints,
		Passed:       res.Passed(),
		Feedback:     res.Feedback,
		SubmittedAt:  res.SubmittedAt,
	}
	if exam != nil {
		detail.ExamTitle = exam.Title
	}
	if res.User != nil {
		detail.StudentName = res.User.Name
	}

	showKey := s.Policy.CanSeeAnswerKey(actor)
	detail.Outcomes = make([]OutcomeDetail, 0, len(res.Outcomes))
	for _, o := range res.Outcomes {
		od := OutcomeDetail{
			QuestionID:   o.QuestionID,
			Answer:       o.Answer,
			IsCorrect:    o.IsCorrect,
			PointsEarned: o.PointsEarned,
			Feedback:     o.Feedback,
		}
		if q, ok := qmap[o.QuestionID]; ok {
			od.Content = q.Content
			od.Type = q.Type
			od.Options = q.Options
			if showKey {
				key := q.AnswerKey
				od.CorrectAnswer = &key
			}
		} else {
			// the question was edited away since grading; the rest of the
			// result stays viewable
			od.Content = "(question not found)"
		}
		detail.Outcomes = append(detail.Outcomes, od)
	}

	return detail, nil
}

// resolveQuestions builds the questionId -> question map for a result:
// direct lookup over the referenced ids first, then a fallback over the
// exam's current question set for anything the direct lookup missed.
func (s *ResultService) resolveQuestions(res *model.Result) map[uint]model.Question {
	ids := make([]uint, 0, len(res.Outcomes))
	for _, o := range res.Outcomes {
		ids = append(ids, o.QuestionID)
	}

	qmap := make(map[uint]model.Question, len(ids))
	if qs, err := s.QuestionRepo.FindByIDs(ids); err == nil {
		for _, q := range qs {
			qmap[q.ID] = q
		}
	} else {
		logger.Log.Warn("direct question lookup failed for result read",
			zap.String("resultId", res.ID), zap.Error(err))
	}

	if len(qmap) < len(ids) {
		if qs, err := s.QuestionRepo.FindByExam(res.ExamID); err == nil {
			for _, q := range qs {
				if _, ok := qmap[q.ID]; !ok {
					qmap[q.ID] = q
				}
			}
		}
	}

	return qmap
}

// AmendRequest is a teacher's partial grade override. Identity fields of the
// result (exam, student, submission time) are immutable.
type AmendRequest struct {
	Outcomes *[]model.QuestionOutcome `json:"outcomes,omitempty"`
	Score    *int                     `json:"score,omitempty"`
	Feedback *string                  `json:"feedback,omitempty"`
}

func (s *ResultService) Amend(actor model.Identity, resultID string, req AmendRequest) (*model.Result, error) {
	res, err := s.Repo.FindByID(resultID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResultNotFound
		}
		return nil, err
	}

	exam := res.Exam
	if exam == nil {
		exam, _ = s.ExamRepo.FindByID(res.ExamID)
	}
	if err := s.Policy.CanAmendResult(actor, exam); err != nil {
		return nil, err
	}

	if req.Outcomes != nil {
		res.Outcomes = sanitizeOutcomes(*req.Outcomes)
		earned := 0
		for _, o := range res.Outcomes {
			earned += o.PointsEarned
		}
		if earned > res.TotalPoints {
			earned = res.TotalPoints
		}
		res.EarnedPoints = earned
		if req.Score == nil {
			if res.TotalPoints > 0 {
				res.Score = int(math.Round(float64(earned) / float64(res.TotalPoints) * 100))
			} else {
				res.Score = 0
			}
		}
	}

	if req.Score != nil {
		score := *req.Score
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
		res.Score = score
	}

	if req.Feedback != nil {
		res.Feedback = *req.Feedback
	}

	if err := s.Repo.Update(res); err != nil {
		return nil, err
	}

	s.Stats.InvalidateCache(res.ExamID)

	logger.Log.Info("result amended",
		zap.String("resultId", res.ID),
		zap.Uint("byUser", actor.UserID))

	return res, nil
}

// sanitizeOutcomes keeps only the fields needed for re-display. In
// particular no nested question payloads survive; the question id is the
// only reference persisted.
func sanitizeOutcomes(in []model.QuestionOutcome) []model.QuestionOutcome {
	out := make([]model.QuestionOutcome, 0, len(in))
	for _, o := range in {
		if o.QuestionID == 0 {
			continue
		}
		if o.PointsEarned < 0 {
			o.PointsEarned = 0
		}
		out = append(out, model.QuestionOutcome{
			QuestionID:   o.QuestionID,
			Answer:       o.Answer,
			IsCorrect:    o.IsCorrect,
			PointsEarned: o.PointsEarned,
			Feedback:     o.Feedback,
		})
	}
	return out
}

func (s *ResultService) ListByExam(actor model.Identity, examID uint) ([]model.Result, error) {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}
	if err := s.Policy.CanListExamResults(actor, exam); err != nil {
		return nil, err
	}
	return s.Repo.ListByExam(examID)
}

func (s *ResultService) ListByStudent(actor model.Identity, studentID uint, page, limit int) ([]model.Result, int64, error) {
	if !actor.IsAdmin() && !(actor.IsStudent() && actor.UserID == studentID) {
		return nil, 0, util.ErrPermissionDenied
	}
	return s.Repo.ListByStudent(studentID, page, limit)
}
