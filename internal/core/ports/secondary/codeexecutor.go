package secondary

import (
	"context"

	"gitlab.com/codepad.net/internal/domain"
)

type CodeExecutor interface {
	// Execute runs one submission remotely. Transport problems are reported
	// through domain.ResultTransportFailure, never as a Go error.
	Execute(ctx context.Context, submission domain.Submission) domain.ExecutionResult
}
