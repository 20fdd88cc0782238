package service

import (
	"context"
	"encoding/json"
	"errors"
	"exam_hub_backend/internal/model"
	"exam_hub_backend/internal/repository"
	"exam_hub_backend/internal/util"
	"exam_hub_backend/pkg/logger"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatisticsService derives per-exam summary statistics from the result
// set. Computation is read-only and tolerates zero results everywhere.
// Computed statistics are cached in redis and invalidated whenever a result
// for the exam is written or amended.
type StatisticsService struct {
	ResultRepo   *repository.ResultRepository
	ExamRepo     *repository.ExamRepository
	QuestionRepo *repository.QuestionRepository
	Policy       *AccessPolicy
	Redis        *redis.Client
	CacheTTL     time.Duration
}

func NewStatisticsService(resultRepo *repository.ResultRepository, examRepo *repository.ExamRepository, questionRepo *repository.QuestionRepository, policy *AccessPolicy, rdb *redis.Client, cacheTTL time.Duration) *StatisticsService {
	return &StatisticsService{
		ResultRepo:   resultRepo,
		ExamRepo:     examRepo,
		QuestionRepo: questionRepo,
		Policy:       policy,
		Redis:        rdb,
		CacheTTL:     cacheTTL,
	}
}

func statsCacheKey(examID uint) string {
	return fmt.Sprintf("examhub:stats:%d", examID)
}

// Compute returns the exam's statistics, from cache when fresh.
func (s *StatisticsService) Compute(actor model.Identity, examID uint) (*model.ExamStatistics, error) {
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

	if s.Redis != nil {
		if cached, err := s.Redis.Get(context.Background(), statsCacheKey(examID)).Result(); err == nil {
			var stats model.ExamStatistics
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	results, err := s.ResultRepo.ListByExam(examID)
	if err != nil {
		return nil, err
	}
	set, err := questionSet(s.ExamRepo, s.QuestionRepo, examID)
	if err != nil {
		return nil, err
	}

	stats := aggregate(examID, set, results)

	if s.Redis != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.Redis.Set(context.Background(), statsCacheKey(examID), payload, s.CacheTTL).Err(); err != nil {
				logger.Log.Warn("statistics cache write failed",
					zap.Uint("examId", examID), zap.Error(err))
			}
		}
	}

	return stats, nil
}

// InvalidateCache drops the cached statistics for an exam. Safe to call
// without redis configured.
func (s *StatisticsService) InvalidateCache(examID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), statsCacheKey(examID)).Err(); err != nil {
		logger.Log.Warn("statistics cache invalidation failed",
			zap.Uint("examId", examID), zap.Error(err))
	}
}

func aggregate(examID uint, set []weightedQuestion, results []model.Result) *model.ExamStatistics {
	stats := &model.ExamStatistics{
		ExamID:            examID,
		SubmissionCount:   len(results),
		ScoreDistribution: newBuckets(),
	}

	if len(results) > 0 {
		sum, passed := 0, 0
		min, max := results[0].Score, results[0].Score
		for _, r := range results {
			sum += r.Score
			if r.Score >= model.PassingScore {
				passed++
			}
			if r.Score < min {
				min = r.Score
			}
			if r.Score > max {
				max = r.Score
			}
			stats.ScoreDistribution[bucketIndex(r.Score)].Count++
		}
		stats.AverageScore = float64(sum) / float64(len(results))
		stats.PassingRate = float64(passed) / float64(len(results)) * 100
		stats.HighestScore = max
		stats.LowestScore = min
	}

	stats.QuestionStats = make([]model.QuestionStat, 0, len(set))
	for _, wq := range set {
		qs := model.QuestionStat{
			QuestionID: wq.Question.ID,
			Content:    wq.Question.Content,
		}
		for _, r := range results {
			for _, o := range r.Outcomes {
				if o.QuestionID != wq.Question.ID {
					continue
				}
				if answered(o.Answer) {
					qs.AnsweredCount++
				}
				if o.IsCorrect {
					qs.CorrectCount++
				}
				break
			}
		}
		if qs.AnsweredCount > 0 {
			qs.CorrectRate = float64(qs.CorrectCount) / float64(qs.AnsweredCount) * 100
		}
		qs.Difficulty = difficultyLabel(qs.CorrectRate)
		stats.QuestionStats = append(stats.QuestionStats, qs)
	}

	return stats
}

// newBuckets builds the five fixed 20-point buckets. All are half-open
// except the last, which includes 100.
func newBuckets() []model.ScoreBucket {
	buckets := make([]model.ScoreBucket, 5)
	for i := range buckets {
		min := i * 20
		max := min + 20
		buckets[i] = model.ScoreBucket{
			Label: fmt.Sprintf("%d-%d", min, max),
			Min:   min,
			Max:   max,
		}
	}
	return buckets
}

func bucketIndex(score int) int {
	idx := score / 20
	if idx > 4 {
		idx = 4 // 100 lands in the closed top bucket
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

func difficultyLabel(correctRate float64) string {
	switch {
	case correctRate >= 80:
		return "Easy"
	case correctRate >= 50:
		return "Medium"
	default:
		return "Hard"
	}
}
