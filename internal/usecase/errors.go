package usecase

import "errors"

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrJobNotFound       = errors.New("job not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrBatchInProgress   = errors.New("a screening batch is already running for this job")
	ErrFileTooLarge      = errors.New("file exceeds the size limit")
	ErrUnsupportedFile   = errors.New("unsupported file type")
	ErrInternal          = errors.New("internal error")
)
