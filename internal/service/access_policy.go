package service

import (
	"exam_hub_backend/internal/model"
	"exam_hub_backend/internal/util"
)

// AccessPolicy is the capability matrix over assignments and results:
// admin sees everything, a teacher only what belongs to exams they authored,
// a student only their own records. Every check fails closed with
// ErrPermissionDenied and never reveals whether the target exists.
type AccessPolicy struct{}

func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

// CanManageExam gates authoring operations: edit, publish, delete, attach
// questions.
func (p *AccessPolicy) CanManageExam(actor model.Identity, exam *model.Exam) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsTeacher() && exam.TeacherID == actor.UserID {
		return nil
	}
	return util.ErrPermissionDenied
}

func (p *AccessPolicy) CanViewResult(actor model.Identity, res *model.Result, exam *model.Exam) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsTeacher() && exam != nil && exam.TeacherID == actor.UserID {
		return nil
	}
	if actor.IsStudent() && res.UserID == actor.UserID {
		return nil
	}
	return util.ErrPermissionDenied
}

func (p *AccessPolicy) CanAmendResult(actor model.Identity, exam *model.Exam) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsTeacher() && exam != nil && exam.TeacherID == actor.UserID {
		return nil
	}
	return util.ErrPermissionDenied
}

// CanListExamResults also gates statistics, which are derived from the same
// result set.
func (p *AccessPolicy) CanListExamResults(actor model.Identity, exam *model.Exam) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsTeacher() && exam.TeacherID == actor.UserID {
		return nil
	}
	return util.ErrPermissionDenied
}

func (p *AccessPolicy) CanViewAssignment(actor model.Identity, a *model.Assignment, exam *model.Exam) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsTeacher() && exam != nil && exam.TeacherID == actor.UserID {
		return nil
	}
	if actor.IsStudent() && a.UserID == actor.UserID {
		return nil
	}
	return util.ErrPermissionDenied
}

// CanSeeAnswerKey: students never see correct answers through any payload;
// staff always can.
func (p *AccessPolicy) CanSeeAnswerKey(actor model.Identity) bool {
	return actor.IsAdmin() || actor.IsTeacher()
}
