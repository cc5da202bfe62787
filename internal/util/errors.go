package util

import "errors"

var (
	// ErrValidation marks input-shape errors; controllers answer 400 for
	// anything wrapping it.
	ErrValidation = errors.New("invalid input")

	ErrQuizNotFound       = errors.New("quiz not found")
	ErrMeshNotFound       = errors.New("mesh not found")
	ErrGroupNotFound      = errors.New("organ group not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidID          = errors.New("malformed identifier")
	ErrMeshNameTaken      = errors.New("mesh name already in use")
	ErrGroupNameTaken     = errors.New("group name already in use")
)
