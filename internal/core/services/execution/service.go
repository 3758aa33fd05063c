package execution

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/codepad.net/internal/domain"
)

// RunOnceRequest is an editor-mode run without test cases
type RunOnceRequest struct {
	SourceCode string
	// LanguageID zero selects the configured default
	LanguageID int
}

// SuiteRequest is a custom-question run against an ordered list of test cases
type SuiteRequest struct {
	Owner      string
	SourceCode string
	LanguageID int
	TestCases  []domain.TestCase
	// Observer, when set, receives every verdict as soon as it is produced
	Observer func(domain.Verdict)
}

// IExecutionService is the entry point presentation layers call into
type IExecutionService interface {
	// RunOnce executes the code once with empty stdin
	RunOnce(ctx context.Context, req RunOnceRequest) (domain.ExecutionResult, error)

	// RunTestSuite runs every valid test case in order and blocks until the run ends
	RunTestSuite(ctx context.Context, req SuiteRequest) (*domain.RunState, error)

	// StartTestSuite starts the run in the background and returns its ID
	StartTestSuite(ctx context.Context, req SuiteRequest) (uuid.UUID, error)

	// GetRun returns the latest snapshot of a run owned by owner
	GetRun(ctx context.Context, owner string, runID uuid.UUID) (*domain.RunState, error)

	// CancelRun stops an active run of owner before its next test case
	CancelRun(ctx context.Context, owner string, runID uuid.UUID) error
}
