package runs

import (
	"github.com/google/uuid"

	"gitlab.com/codepad.net/internal/domain"
)

// RunOnceRequest represents an editor-mode run request
type RunOnceRequest struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
}

// RunSuiteRequest represents a custom-question run request
type RunSuiteRequest struct {
	SourceCode string            `json:"source_code"`
	LanguageID int               `json:"language_id"`
	TestCases  []domain.TestCase `json:"test_cases"`
}

// RunSuiteResponse represents a finished run
type RunSuiteResponse struct {
	*domain.RunState
	Summary domain.RunSummary `json:"summary"`
}

// StartRunResponse represents a response to an asynchronous run request
type StartRunResponse struct {
	RunID uuid.UUID `json:"run_id"`
}
