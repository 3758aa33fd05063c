package errs

import "errors"

var (
	ErrRunInProgress      = errors.New("another run is already in progress")
	ErrRunNotFound        = errors.New("run not found")
	ErrEmptySourceCode    = errors.New("source code is required")
	ErrLanguageNotAllowed = errors.New("language is not allowed")
	ErrHistoryUnavailable = errors.New("history storage is not configured")
)
