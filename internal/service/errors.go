package service

import "errors"

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrSubjectNotFound = errors.New("subject not found")
	ErrInvalidInput    = errors.New("invalid input")
)
