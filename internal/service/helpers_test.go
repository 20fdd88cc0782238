package service

import (
	"encoding/json"
	"exam_hub_backend/internal/model"
	"exam_hub_backend/internal/repository"
	"exam_hub_backend/pkg/database"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var userSeq uint64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// one connection so every session sees the same in-memory database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fixture bundles the repositories and services under test around one
// in-memory database.
type fixture struct {
	db          *gorm.DB
	users       *repository.UserRepository
	exams       *repository.ExamRepository
	questions   *repository.QuestionRepository
	assignments *repository.AssignmentRepository
	results     *repository.ResultRepository

	policy     *AccessPolicy
	statistics *StatisticsService
	submission *SubmissionService
	result     *ResultService
	assignment *AssignmentService
	exam       *ExamService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	f := &fixture{
		db:          db,
		users:       repository.NewUserRepository(db),
		exams:       repository.NewExamRepository(db),
		questions:   repository.NewQuestionRepository(db),
		assignments: repository.NewAssignmentRepository(db),
		results:     repository.NewResultRepository(db),
		policy:      NewAccessPolicy(),
	}
	f.statistics = NewStatisticsService(f.results, f.exams, f.questions, f.policy, nil, time.Minute)
	f.submission = NewSubmissionService(f.exams, f.questions, f.assignments, f.results, f.statistics, db)
	f.result = NewResultService(f.results, f.exams, f.questions, f.policy, f.statistics)
	f.assignment = NewAssignmentService(f.assignments, f.exams, f.users, f.policy)
	f.exam = NewExamService(f.exams, f.questions, f.assignment, f.policy, f.statistics)
	return f
}

func (f *fixture) createUser(t *testing.T, role model.UserRole, class string) *model.User {
	t.Helper()
	n := atomic.AddUint64(&userSeq, 1)
	u := &model.User{
		Name:      fmt.Sprintf("%s-user-%d", role, n),
		Email:     fmt.Sprintf("%s-%d@example.com", role, n),
		Password:  "x",
		Role:      role,
		ClassName: class,
	}
	if err := f.users.Create(u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) createExam(t *testing.T, teacherID uint) *model.Exam {
	t.Helper()
	e := &model.Exam{
		Title:       "Midterm",
		Subject:     "Geography",
		ClassName:   "3A",
		TeacherID:   teacherID,
		IsPublished: true,
	}
	if err := f.exams.Create(e); err != nil {
		t.Fatalf("create exam: %v", err)
	}
	return e
}

func (f *fixture) addQuestion(t *testing.T, exam *model.Exam, q *model.Question, points, order int) *model.Question {
	t.Helper()
	if err := f.questions.Create(q); err != nil {
		t.Fatalf("create question: %v", err)
	}
	if err := f.exams.AttachQuestion(&model.ExamQuestion{
		ExamID:     exam.ID,
		QuestionID: q.ID,
		Points:     points,
		Order:      order,
	}); err != nil {
		t.Fatalf("attach question: %v", err)
	}
	return q
}

func (f *fixture) assign(t *testing.T, examID, userID uint) *model.Assignment {
	t.Helper()
	a := model.Assignment{ExamID: examID, UserID: userID, Status: model.AssignmentPending}
	if err := f.assignments.BulkCreate([]model.Assignment{a}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	got, err := f.assignments.FindByExamAndUser(examID, userID)
	if err != nil {
		t.Fatalf("find assignment: %v", err)
	}
	return got
}

// twoQuestionExam seeds the standard grading fixture: a 2-point single
// choice question with answer "a" and a 3-point numeric question with
// answer 10.
func (f *fixture) twoQuestionExam(t *testing.T, teacherID uint) (*model.Exam, *model.Question, *model.Question) {
	t.Helper()
	exam := f.createExam(t, teacherID)
	q1 := f.addQuestion(t, exam, &model.Question{
		OwnerID: teacherID,
		Type:    model.SingleChoice,
		Content: "Capital of France?",
		Options: []model.Option{
			{ID: "a", Text: "Paris"},
			{ID: "b", Text: "London"},
		},
		AnswerKey: model.AnswerKey{Type: model.SingleChoice, OptionID: "a"},
		Points:    1,
	}, 2, 1)
	q2 := f.addQuestion(t, exam, &model.Question{
		OwnerID:   teacherID,
		Type:      model.Numeric,
		Content:   "5 + 5?",
		AnswerKey: model.AnswerKey{Type: model.Numeric, Number: 10},
		Points:    1,
	}, 3, 2)
	return exam, q1, q2
}

func rawAnswers(pairs map[uint]string) map[uint]json.RawMessage {
	out := make(map[uint]json.RawMessage, len(pairs))
	for id, v := range pairs {
		out[id] = json.RawMessage(v)
	}
	return out
}
