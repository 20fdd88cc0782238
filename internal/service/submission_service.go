package service

import (
	"encoding/json"
	"errors"
	"exam_hub_backend/internal/model"
	"exam_hub_backend/internal/repository"
	"exam_hub_backend/internal/util"
	"exam_hub_backend/pkg/logger"
	"exam_hub_backend/pkg/monitoring"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmissionService coordinates one exam submission: eligibility check,
// grading, result persistence and assignment completion. The result write
// and the status transition share one transaction; a failed submission
// leaves the assignment untouched so the student can retry.
type SubmissionService struct {
	ExamRepo       *repository.ExamRepository
	QuestionRepo   *repository.QuestionRepository
	AssignmentRepo *repository.AssignmentRepository
	ResultRepo     *repository.ResultRepository
	Stats          *StatisticsService
	DB             *gorm.DB

	// one mutex per (examId, userId) pair; serializes the exists-check
	// against concurrent submissions of the same pair. The unique index on
	// results backs this up across processes.
	locks sync.Map
}

func NewSubmissionService(examRepo *repository.ExamRepository, questionRepo *repository.QuestionRepository, assignmentRepo *repository.AssignmentRepository, resultRepo *repository.ResultRepository, stats *StatisticsService, db *gorm.DB) *SubmissionService {
	return &SubmissionService{
		ExamRepo:       examRepo,
		QuestionRepo:   questionRepo,
		AssignmentRepo: assignmentRepo,
		ResultRepo:     resultRepo,
		Stats:          stats,
		DB:             db,
	}
}

// SubmissionOutcome is what the exam-taking flow renders after a submit.
type SubmissionOutcome struct {
	ResultID         string `json:"resultId"`
	Score            int    `json:"score"`
	EarnedPoints     int    `json:"earnedPoints"`
	TotalPoints      int    `json:"totalPoints"`
	Passed           bool   `json:"passed"`
	AlreadySubmitted bool   `json:"alreadySubmitted"`
	Message          string `json:"message"`
}

// weightedQuestion pairs a question with its effective weight for one exam.
type weightedQuestion struct {
	Question model.Question
	Points   int
}

// questionSet loads an exam's questions in exam order with per-exam point
// overrides applied.
func questionSet(examRepo *repository.ExamRepository, questionRepo *repository.QuestionRepository, examID uint) ([]weightedQuestion, error) {
	eqs, err := examRepo.ListExamQuestions(examID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(eqs))
	for _, eq := range eqs {
		ids = append(ids, eq.QuestionID)
	}
	qs, err := questionRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Question, len(qs))
	for _, q := range qs {
		byID[q.ID] = q
	}

	set := make([]weightedQuestion, 0, len(eqs))
	for _, eq := range eqs {
		q, ok := byID[eq.QuestionID]
		if !ok {
			// stale join row; skip rather than fail the whole set
			logger.Log.Warn("exam references missing question",
				zap.Uint("examId", examID), zap.Uint("questionId", eq.QuestionID))
			continue
		}
		set = append(set, weightedQuestion{Question: q, Points: q.EffectivePoints(eq.Points)})
	}
	return set, nil
}

func (s *SubmissionService) pairLock(examID, userID uint) *sync.Mutex {
	key := fmt.Sprintf("%d:%d", examID, userID)
	v, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Submit grades the student's answers exactly once. A second call for the
// same pair short-circuits to the existing result without re-grading.
func (s *SubmissionService) Submit(actor model.Identity, examID uint, answers map[uint]json.RawMessage) (*SubmissionOutcome, error) {
	if !actor.IsStudent() {
		return nil, util.ErrPermissionDenied
	}
	studentID := actor.UserID

	mu := s.pairLock(examID, studentID)
	mu.Lock()
	defer mu.Unlock()

	assignment, err := s.AssignmentRepo.FindByExamAndUser(examID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotAssigned
		}
		return nil, fmt.Errorf("%w: %v", util.ErrStorageFailure, err)
	}

	if existing, err := s.ResultRepo.FindByExamAndUser(examID, studentID); err == nil {
		return alreadySubmittedOutcome(existing), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", util.ErrStorageFailure, err)
	}

	if _, err := s.ExamRepo.FindByID(examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, fmt.Errorf("%w: %v", util.ErrStorageFailure, err)
	}

	set, err := questionSet(s.ExamRepo, s.QuestionRepo, examID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrStorageFailure, err)
	}

	earned, total := 0, 0
	outcomes := make([]model.QuestionOutcome, 0, len(set))
	for _, wq := range set {
		raw := answers[wq.Question.ID] // nil when skipped; graded as incorrect
		ev := EvaluateAnswer(&wq.Question, wq.Points, raw)
		earned += ev.PointsEarned
		total += wq.Points
		outcomes = append(outcomes, model.QuestionOutcome{
			QuestionID:   wq.Question.ID,
			Answer:       raw,
			IsCorrect:    ev.IsCorrect,
			PointsEarned: ev.PointsEarned,
		})
	}

	score := 0
	if total > 0 {
		score = int(math.Round(float64(earned) / float64(total) * 100))
	}

	result := &model.Result{
		ExamID:       examID,
		UserID:       studentID,
		Score:        score,
		EarnedPoints: earned,
		TotalPoints:  total,
		Outcomes:     outcomes,
		SubmittedAt:  time.Now(),
	}

	now := time.Now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(result).Error; err != nil {
			return err
		}
		return tx.Model(&model.Assignment{}).
			Where("id = ?", assignment.ID).
			Updates(map[string]interface{}{
				"status":       model.AssignmentCompleted,
				"completed_at": now,
			}).Error
	})
	if err != nil {
		// A concurrent submission may have won the unique index race; in
		// that case the pair already has its one result.
		if existing, ferr := s.ResultRepo.FindByExamAndUser(examID, studentID); ferr == nil {
			return alreadySubmittedOutcome(existing), nil
		}
		return nil, fmt.Errorf("%w: %v", util.ErrStorageFailure, err)
	}

	outcome := "failed"
	if result.Passed() {
		outcome = "passed"
	}
	monitoring.SubmissionsGraded.WithLabelValues(outcome).Inc()
	s.Stats.InvalidateCache(examID)

	logger.Log.Info("exam submission graded",
		zap.Uint("examId", examID),
		zap.Uint("userId", studentID),
		zap.String("resultId", result.ID),
		zap.Int("score", score))

	return &SubmissionOutcome{
		ResultID:     result.ID,
		Score:        score,
		EarnedPoints: earned,
		TotalPoints:  total,
		Passed:       result.Passed(),
		Message:      submissionMessage(score, result.Passed()),
	}, nil
}

func alreadySubmittedOutcome(res *model.Result) *SubmissionOutcome {
	return &SubmissionOutcome{
		ResultID:         res.ID,
		Score:            res.Score,
		EarnedPoints:     res.EarnedPoints,
		TotalPoints:      res.TotalPoints,
		Passed:           res.Passed(),
		AlreadySubmitted: true,
		Message:          "You have already submitted this exam; showing your recorded result.",
	}
}

func submissionMessage(score int, passed bool) string {
	if passed {
		return fmt.Sprintf("Exam submitted. You scored %d and passed.", score)
	}
	return fmt.Sprintf("Exam submitted. You scored %d; the passing score is %d.", score, model.PassingScore)
}
