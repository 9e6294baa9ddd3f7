package entity

import "errors"

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrLeadNotFound       = errors.New("lead not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrBatchNotFound      = errors.New("batch not found")
	ErrCourseNotFound     = errors.New("course not found")

	// ErrEmailTaken and ErrAlreadyEnrolled surface unique-constraint
	// violations; callers treat them as "someone else won the race" and
	// re-read the winner's row.
	ErrEmailTaken      = errors.New("an account with this email already exists")
	ErrAlreadyEnrolled = errors.New("student already enrolled in this batch")
)
