package service

import (
	"exam_hub_backend/internal/model"
	"exam_hub_backend/internal/util"
	"testing"
)

var (
	adminID   = model.Identity{UserID: 1, Role: model.Admin}
	ownerID   = model.Identity{UserID: 2, Role: model.Teacher}
	otherID   = model.Identity{UserID: 3, Role: model.Teacher}
	studentID = model.Identity{UserID: 4, Role: model.Student}
	selfID    = model.Identity{UserID: 5, Role: model.Student}
)

func TestCanManageExam(t *testing.T) {
	p := NewAccessPolicy()
	exam := &model.Exam{TeacherID: ownerID.UserID}

	tests := []struct {
		name    string
		actor   model.Identity
		allowed bool
	}{
		{"admin", adminID, true},
		{"owning teacher", ownerID, true},
		{"other teacher", otherID, false},
		{"student", studentID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.CanManageExam(tt.actor, exam)
			if tt.allowed && err != nil {
				t.Errorf("denied: %v", err)
			}
			if !tt.allowed && err != util.ErrPermissionDenied {
				t.Errorf("err = %v, want ErrPermissionDenied", err)
			}
		})
	}
}

func TestCanViewResult(t *testing.T) {
	p := NewAccessPolicy()
	exam := &model.Exam{TeacherID: ownerID.UserID}
	res := &model.Result{UserID: selfID.UserID}

	tests := []struct {
		name    string
		actor   model.Identity
		exam    *model.Exam
		allowed bool
	}{
		{"admin", adminID, exam, true},
		{"owning teacher", ownerID, exam, true},
		{"other teacher", otherID, exam, false},
		{"owning student", selfID, exam, true},
		{"other student", studentID, exam, false},
		{"teacher with missing exam", ownerID, nil, false},
		{"student with missing exam", selfID, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.CanViewResult(tt.actor, res, tt.exam)
			if tt.allowed && err != nil {
				t.Errorf("denied: %v", err)
			}
			if !tt.allowed && err != util.ErrPermissionDenied {
				t.Errorf("err = %v, want ErrPermissionDenied", err)
			}
		})
	}
}

func TestCanAmendAndListResults(t *testing.T) {
	p := NewAccessPolicy()
	exam := &model.Exam{TeacherID: ownerID.UserID}

	for _, actor := range []model.Identity{adminID, ownerID} {
		if err := p.CanAmendResult(actor, exam); err != nil {
			t.Errorf("%v denied amend: %v", actor.Role, err)
		}
		if err := p.CanListExamResults(actor, exam); err != nil {
			t.Errorf("%v denied list: %v", actor.Role, err)
		}
	}
	for _, actor := range []model.Identity{otherID, studentID} {
		if err := p.CanAmendResult(actor, exam); err != util.ErrPermissionDenied {
			t.Errorf("%v amend err = %v, want ErrPermissionDenied", actor.Role, err)
		}
		if err := p.CanListExamResults(actor, exam); err != util.ErrPermissionDenied {
			t.Errorf("%v list err = %v, want ErrPermissionDenied", actor.Role, err)
		}
	}
}

func TestCanSeeAnswerKey(t *testing.T) {
	p := NewAccessPolicy()
	if !p.CanSeeAnswerKey(adminID) || !p.CanSeeAnswerKey(ownerID) {
		t.Error("staff should see answer keys")
	}
	if p.CanSeeAnswerKey(studentID) {
		t.Error("students must never see answer keys")
	}
}
