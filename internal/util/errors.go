package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrExamNotFound       = errors.New("exam not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrResultNotFound     = errors.New("result not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrNotAssigned        = errors.New("you are not assigned to this exam")
	ErrAlreadySubmitted   = errors.New("exam already submitted")
	ErrExamNotPublished   = errors.New("exam not published or not accessible")
	ErrStorageFailure     = errors.New("storage failure, please retry")
)
