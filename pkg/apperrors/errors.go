package apperrors

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidRole      = errors.New("invalid role")
	ErrNotApproved      = errors.New("user not approved")
	ErrInvalidPassword  = errors.New("invalid credentials")
	ErrUsernameTaken    = errors.New("username already exists")
	ErrAlreadyEnrolled  = errors.New("already enrolled in this section")
	ErrSectionFull      = errors.New("section is at capacity")
	ErrScheduleConflict = errors.New("schedule conflict")
)
