package service

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("insufficient rights")
	ErrWrongPassword      = errors.New("wrong password")

	// ErrCorruptNote marks a protected note whose hash is missing. That is an
	// invariant violation and must surface as an internal failure, never as a
	// silent success or a plain access denial.
	ErrCorruptNote = errors.New("protected note has no password hash")
)
