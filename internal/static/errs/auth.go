package errs

import "errors"

var (
	MissingToken = errors.New("authorization header missing")
	InvalidToken = errors.New("invalid token")
)
