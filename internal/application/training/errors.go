package training

import "errors"

var (
	ErrInvalidImportSource = errors.New("invalid import source")
	ErrInvalidImportKind   = errors.New("invalid import kind")
	ErrEnqueueImportJob    = errors.New("failed to enqueue import job")
	ErrInvalidJobID        = errors.New("invalid import job id")
	ErrImportJobNotFound   = errors.New("import job not found")
	ErrGetImportJob        = errors.New("failed to get import job")
	ErrInvalidUserID       = errors.New("invalid user id")
	ErrUserNotFound        = errors.New("user not found")
	ErrGetUserProgress     = errors.New("failed to get user progress")
	ErrGetModuleSummary    = errors.New("failed to get module summary")
)
