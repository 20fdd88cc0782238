package service

import (
	"errors"
	"exam_hub_backend/internal/model"
	"exam_hub_backend/internal/util"
	"testing"
)

func submitFixture(t *testing.T, f *fixture) (*model.User, *model.User, *model.Exam, *SubmissionOutcome) {
	t.Helper()
	teacher := f.createUser(t, model.Teacher, "")
	student := f.createUser(t, model.Student, "3A")
	exam, q1, q2 := f.twoQuestionExam(t, teacher.ID)
	f.assign(t, exam.ID, student.ID)

	outcome, err := f.submission.Submit(student.Identity(), exam.ID,
		rawAnswers(map[uint]string{q1.ID: `"a"`, q2.ID: `7`}))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return teacher, student, exam, outcome
}

func TestGetResultDetail(t *testing.T) {
	f := newFixture(t)
	teacher, student, exam, outcome := submitFixture(t, f)

	detail, err := f.result.GetByID(teacher.Identity(), outcome.ResultID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if detail.ExamID != exam.ID || detail.UserID != student.ID {
		t.Errorf("detail ids = %d/%d, want %d/%d", detail.ExamID, detail.UserID, exam.ID, student.ID)
	}
	if detail.ExamTitle != exam.Title {
		t.Errorf("ExamTitle = %q, want %q", detail.ExamTitle, exam.Title)
	}
	if detail.Score != 40 || detail.Passed {
		t.Errorf("score/passed = %d/%v, want 40/false", detail.Score, detail.Passed)
	}
	if len(detail.Outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(detail.Outcomes))
	}
	for _, o := range detail.Outcomes {
		if o.Content == "" || o.Content == "(question not found)" {
			t.Errorf("outcome %d has no question context", o.QuestionID)
		}
	}
}

func TestAnswerKeyVisibility(t *testing.T) {
	f := newFixture(t)
	teacher, student, _, outcome := submitFixture(t, f)
	admin := f.createUser(t, model.Admin, "")

	tests := []struct {
		name    string
		actor   model.Identity
		wantKey bool
	}{
		{"teacher sees keys", teacher.Identity(), true},
		{"admin sees keys", admin.Identity(), true},
		{"student never sees keys", student.Identity(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail, err := f.result.GetByID(tt.actor, outcome.ResultID)
			if err != nil {
				t.Fatalf("GetByID: %v", err)
			}
			for _, o := range detail.Outcomes {
				if (o.CorrectAnswer != nil) != tt.wantKey {
					t.Errorf("outcome %d CorrectAnswer presence = %v, want %v",
						o.QuestionID, o.CorrectAnswer != nil, tt.wantKey)
				}
			}
		})
	}
}

func TestGetResultDeletedQuestionDegrades(t *testing.T) {
	f := newFixture(t)
	teacher, _, _, outcome := submitFixture(t, f)

	res, err := f.results.FindByID(outcome.ResultID)
	if err != nil {
		t.Fatalf("find result: %v", err)
	}
	gone := res.Outcomes[0].QuestionID
	if err := f.questions.Delete(gone); err != nil {
		t.Fatalf("delete question: %v", err)
	}

	detail, err := f.result.GetByID(teacher.Identity(), outcome.ResultID)
	if err != nil {
		t.Fatalf("GetByID after delete: %v", err)
	}
	var found bool
	for _, o := range detail.Outcomes {
		if o.QuestionID == gone {
			found = true
			if o.Content != "(question not found)" {
				t.Errorf("Content = %q, want placeholder", o.Content)
			}
		} else if o.Content == "" || o.Content == "(question not found)" {
			t.Errorf("intact question %d lost its context", o.QuestionID)
		}
	}
	if !found {
		t.Error("deleted question's outcome missing from detail")
	}
}

func TestGetResultAccess(t *testing.T) {
	f := newFixture(t)
	_, student, _, outcome := submitFixture(t, f)
	otherStudent := f.createUser(t, model.Student, "3A")
	otherTeacher := f.createUser(t, model.Teacher, "")

	if _, err := f.result.GetByID(student.Identity(), outcome.ResultID); err != nil {
		t.Errorf("own result: %v", err)
	}
	if _, err := f.result.GetByID(otherStudent.Identity(), outcome.ResultID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("other student err = %v, want ErrPermissionDenied", err)
	}
	if _, err := f.result.GetByID(otherTeacher.Identity(), outcome.ResultID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("other teacher err = %v, want ErrPermissionDenied", err)
	}
}

func TestGetResultUnknownID(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser(t, model.Admin, "")
	if _, err := f.result.GetByID(admin.Identity(), "no-such-id"); !errors.Is(err, util.ErrResultNotFound) {
		t.Errorf("err = %v, want ErrResultNotFound", err)
	}
}

func TestAmendFeedbackOnly(t *testing.T) {
	f := newFixture(t)
	teacher, _, _, outcome := submitFixture(t, f)

	fb := "Show your working next time."
	res, err := f.result.Amend(teacher.Identity(), outcome.ResultID, AmendRequest{Feedback: &fb})
	if err != nil {
		t.Fatalf("Amend: %v", err)
	}
	if res.Feedback != fb {
		t.Errorf("Feedback = %q, want %q", res.Feedback, fb)
	}
	if res.Score != outcome.Score {
		t.Errorf("Score changed to %d on feedback-only amend", res.Score)
	}
}

func TestAmendOutcomesRecomputesScore(t *testing.T) {
	f := newFixture(t)
	teacher, _, _, outcome := submitFixture(t, f)

	res, err := f.results.FindByID(outcome.ResultID)
	if err != nil {
		t.Fatalf("find result: %v", err)
	}
	// give full credit on the numeric question the student missed
	amended := make([]model.QuestionOutcome, len(res.Outcomes))
	copy(amended, res.Outcomes)
	for i := range amended {
		if !amended[i].IsCorrect {
			amended[i].IsCorrect = true
			amended[i].PointsEarned = 3
			amended[i].Feedback = "accepted on review"
		}
	}

	got, err := f.result.Amend(teacher.Identity(), outcome.ResultID, AmendRequest{Outcomes: &amended})
	if err != nil {
		t.Fatalf("Amend: %v", err)
	}
	if got.EarnedPoints != 5 {
		t.Errorf("EarnedPoints = %d, want 5", got.EarnedPoints)
	}
	if got.Score != 100 {
		t.Errorf("Score = %d, want recomputed 100", got.Score)
	}
	if got.ExamID != res.ExamID || got.UserID != res.UserID {
		t.Error("identity fields changed by amend")
	}
}

func TestAmendExplicitScoreClamped(t *testing.T) {
	f := newFixture(t)
	teacher, _, _, outcome := submitFixture(t, f)

	tests := []struct {
		name  string
		score int
		want  int
	}{
		{"in range", 85, 85},
		{"above cap", 150, 100},
		{"below floor", -5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.result.Amend(teacher.Identity(), outcome.ResultID, AmendRequest{Score: &tt.score})
			if err != nil {
				t.Fatalf("Amend: %v", err)
			}
			if got.Score != tt.want {
				t.Errorf("Score = %d, want %d", got.Score, tt.want)
			}
		})
	}
}

func TestAmendSanitizesOutcomes(t *testing.T) {
	in := []model.QuestionOutcome{
		{QuestionID: 0, PointsEarned: 5},  // dropped, no reference
		{QuestionID: 1, PointsEarned: -3}, // negative clamped
		{QuestionID: 2, PointsEarned: 2, Feedback: "ok"},
	}
	out := sanitizeOutcomes(in)
	if len(out) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(out))
	}
	if out[0].QuestionID != 1 || out[0].PointsEarned != 0 {
		t.Errorf("out[0] = %+v, want question 1 with 0 points", out[0])
	}
	if out[1].QuestionID != 2 || out[1].Feedback != "ok" {
		t.Errorf("out[1] = %+v, want question 2 with feedback", out[1])
	}
}

func TestAmendDeniedForStudentAndOtherTeacher(t *testing.T) {
	f := newFixture(t)
	_, student, _, outcome := submitFixture(t, f)
	otherTeacher := f.createUser(t, model.Teacher, "")

	score := 100
	for _, actor := range []model.Identity{student.Identity(), otherTeacher.Identity()} {
		if _, err := f.result.Amend(actor, outcome.ResultID, AmendRequest{Score: &score}); !errors.Is(err, util.ErrPermissionDenied) {
			t.Errorf("actor %+v err = %v, want ErrPermissionDenied", actor, err)
		}
	}
}

func TestListByStudentScope(t *testing.T) {
	f := newFixture(t)
	_, student, _, _ := submitFixture(t, f)
	other := f.createUser(t, model.Student, "3A")
	admin := f.createUser(t, model.Admin, "")

	if rs, _, err := f.result.ListByStudent(student.Identity(), student.ID, 1, 20); err != nil || len(rs) != 1 {
		t.Errorf("own list = %d results, err %v; want 1, nil", len(rs), err)
	}
	if _, _, err := f.result.ListByStudent(other.Identity(), student.ID, 1, 20); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("other student err = %v, want ErrPermissionDenied", err)
	}
	if _, _, err := f.result.ListByStudent(admin.Identity(), student.ID, 1, 20); err != nil {
		t.Errorf("admin err = %v, want nil", err)
	}
}
