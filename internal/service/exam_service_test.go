package service

import (
	"errors"
	"exam_hub_backend/internal/model"
	"exam_hub_backend/internal/util"
	"testing"
)

func TestPublishAssignsClass(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, model.Teacher, "")
	for i := 0; i < 3; i++ {
		f.createUser(t, model.Student, "3A")
	}
	f.createUser(t, model.Student, "3B") // different class, not assigned
	disabled := f.createUser(t, model.Student, "3A")
	disabled.Disabled = true
	if err := f.users.Update(disabled); err != nil {
		t.Fatalf("disable student: %v", err)
	}

	title := "Final"
	class := "3A"
	exam, err := f.exam.CreateExam(teacher.Identity(), ExamReq{Title: &title, ClassName: &class})
	if err != nil {
		t.Fatalf("CreateExam: %v", err)
	}

	assigned, err := f.exam.Publish(teacher.Identity(), exam.ID)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if assigned != 3 {
		t.Errorf("assigned = %d, want 3 active 3A students", assigned)
	}

	got, err := f.exams.FindByID(exam.ID)
	if err != nil {
		t.Fatalf("find exam: %v", err)
	}
	if !got.IsPublished || got.PublishedAt == nil {
		t.Error("exam not marked published")
	}

	// republish keeps the existing assignments
	firstPublishedAt := *got.PublishedAt
	if _, err := f.exam.Publish(teacher.Identity(), exam.ID); err != nil {
		t.Fatalf("republish: %v", err)
	}
	var count int64
	if err := f.db.Model(&model.Assignment{}).Where("exam_id = ?", exam.ID).Count(&count).Error; err != nil {
		t.Fatalf("count assignments: %v", err)
	}
	if count != 3 {
		t.Errorf("assignment rows after republish = %d, want 3", count)
	}
	got, _ = f.exams.FindByID(exam.ID)
	if !got.PublishedAt.Equal(firstPublishedAt) {
		t.Error("republish moved PublishedAt")
	}
}

func TestAttachQuestionRefreshesTotal(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, model.Teacher, "")
	exam := f.createExam(t, teacher.ID)

	q1, err := f.exam.CreateQuestion(teacher.Identity(), QuestionReq{
		Type:      model.SingleChoice,
		Content:   "pick one",
		Options:   []model.Option{{ID: "a", Text: "A"}},
		AnswerKey: model.AnswerKey{Type: model.SingleChoice, OptionID: "a"},
		Points:    2,
	})
	if err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}
	q2, err := f.exam.CreateQuestion(teacher.Identity(), QuestionReq{
		Type:      model.Numeric,
		Content:   "2+2",
		AnswerKey: model.AnswerKey{Type: model.Numeric, Number: 4},
	})
	if err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}

	if err := f.exam.AttachQuestion(teacher.Identity(), exam.ID, q1.ID, 0, 1); err != nil {
		t.Fatalf("AttachQuestion: %v", err)
	}
	// override the second question's default weight for this exam
	if err := f.exam.AttachQuestion(teacher.Identity(), exam.ID, q2.ID, 5, 2); err != nil {
		t.Fatalf("AttachQuestion: %v", err)
	}

	got, _ := f.exams.FindByID(exam.ID)
	if got.TotalPoints != 7 {
		t.Errorf("TotalPoints = %d, want 7 (2 default + 5 override)", got.TotalPoints)
	}

	if err := f.exam.DetachQuestion(teacher.Identity(), exam.ID, q2.ID); err != nil {
		t.Fatalf("DetachQuestion: %v", err)
	}
	got, _ = f.exams.FindByID(exam.ID)
	if got.TotalPoints != 2 {
		t.Errorf("TotalPoints after detach = %d, want 2", got.TotalPoints)
	}
}

func TestCreateQuestionValidatesKey(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, model.Teacher, "")

	_, err := f.exam.CreateQuestion(teacher.Identity(), QuestionReq{
		Type:      model.SingleChoice,
		Content:   "broken key",
		AnswerKey: model.AnswerKey{Type: model.SingleChoice}, // no optionId
	})
	if err == nil {
		t.Error("expected key validation error")
	}
}

func TestStudentViewStripsKeys(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, model.Teacher, "")
	student := f.createUser(t, model.Student, "3A")
	exam, _, _ := f.twoQuestionExam(t, teacher.ID)
	f.assign(t, exam.ID, student.ID)

	_, views, err := f.exam.StudentView(student.Identity(), exam.ID)
	if err != nil {
		t.Fatalf("StudentView: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d questions, want 2", len(views))
	}
	for _, v := range views {
		if v.AnswerKey != nil {
			t.Errorf("question %d leaks its answer key to a student", v.ID)
		}
	}

	_, staffViews, err := f.exam.GetExam(teacher.Identity(), exam.ID)
	if err != nil {
		t.Fatalf("GetExam: %v", err)
	}
	for _, v := range staffViews {
		if v.AnswerKey == nil {
			t.Errorf("question %d missing its key in the staff view", v.ID)
		}
	}
}

func TestStudentViewGates(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, model.Teacher, "")
	assignedStudent := f.createUser(t, model.Student, "3A")
	strayStudent := f.createUser(t, model.Student, "3A")
	exam, _, _ := f.twoQuestionExam(t, teacher.ID)
	f.assign(t, exam.ID, assignedStudent.ID)

	if _, _, err := f.exam.StudentView(strayStudent.Identity(), exam.ID); !errors.Is(err, util.ErrNotAssigned) {
		t.Errorf("unassigned err = %v, want ErrNotAssigned", err)
	}
	if _, _, err := f.exam.StudentView(teacher.Identity(), exam.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("teacher err = %v, want ErrPermissionDenied", err)
	}

	draft := &model.Exam{Title: "Draft", ClassName: "3A", TeacherID: teacher.ID}
	if err := f.exams.Create(draft); err != nil {
		t.Fatalf("create draft: %v", err)
	}
	f.assign(t, draft.ID, assignedStudent.ID)
	if _, _, err := f.exam.StudentView(assignedStudent.Identity(), draft.ID); !errors.Is(err, util.ErrExamNotPublished) {
		t.Errorf("draft err = %v, want ErrExamNotPublished", err)
	}
}

func TestDeleteExamCascade(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, model.Teacher, "")
	student := f.createUser(t, model.Student, "3A")
	exam, q1, _ := f.twoQuestionExam(t, teacher.ID)
	f.assign(t, exam.ID, student.ID)
	if _, err := f.submission.Submit(student.Identity(), exam.ID,
		rawAnswers(map[uint]string{q1.ID: `"a"`})); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// share q1 with a second exam so the cascade must spare it
	other := f.createExam(t, teacher.ID)
	if err := f.exams.AttachQuestion(&model.ExamQuestion{ExamID: other.ID, QuestionID: q1.ID}); err != nil {
		t.Fatalf("share question: %v", err)
	}

	if err := f.exam.DeleteExam(teacher.Identity(), exam.ID); err != nil {
		t.Fatalf("DeleteExam: %v", err)
	}

	if _, err := f.exams.FindByID(exam.ID); err == nil {
		t.Error("exam still readable after delete")
	}
	var n int64
	f.db.Model(&model.Assignment{}).Where("exam_id = ?", exam.ID).Count(&n)
	if n != 0 {
		t.Errorf("assignments left = %d, want 0", n)
	}
	f.db.Model(&model.Result{}).Where("exam_id = ?", exam.ID).Count(&n)
	if n != 0 {
		t.Errorf("results left = %d, want 0", n)
	}

	if _, err := f.questions.FindByID(q1.ID); err != nil {
		t.Errorf("shared question deleted: %v", err)
	}
}

func TestExamListScope(t *testing.T) {
	f := newFixture(t)
	t1 := f.createUser(t, model.Teacher, "")
	t2 := f.createUser(t, model.Teacher, "")
	admin := f.createUser(t, model.Admin, "")
	student := f.createUser(t, model.Student, "3A")
	f.createExam(t, t1.ID)
	f.createExam(t, t1.ID)
	f.createExam(t, t2.ID)

	if _, total, err := f.exam.List(t1.Identity(), 1, 20); err != nil || total != 2 {
		t.Errorf("teacher list total = %d, err %v; want 2, nil", total, err)
	}
	if _, total, err := f.exam.List(admin.Identity(), 1, 20); err != nil || total != 3 {
		t.Errorf("admin list total = %d, err %v; want 3, nil", total, err)
	}
	if _, _, err := f.exam.List(student.Identity(), 1, 20); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("student list err = %v, want ErrPermissionDenied", err)
	}
}
