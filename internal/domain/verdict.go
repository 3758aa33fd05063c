package domain

// Outcome of a single test case
type Outcome string

const (
	OutcomePassed Outcome = "PASSED"
	OutcomeFailed Outcome = "FAILED"
)

// NoValidTestCaseMessage is the reason of the synthetic verdict returned for an empty suite
const NoValidTestCaseMessage = "provide at least one valid test case"

// Verdict represents the Pass/Fail outcome computed for one test case
type Verdict struct {
	// CaseIndex is 1-based and follows the order of the valid test cases.
	// The synthetic empty-suite verdict uses 0.
	CaseIndex int     `json:"case_index"`
	Outcome   Outcome `json:"outcome"`
	Reason    string  `json:"reason,omitempty"`
	// Stderr keeps the full remote stderr when Reason only shows its last line
	Stderr string `json:"stderr,omitempty"`
}

func Passed(caseIndex int) Verdict {
	return Verdict{CaseIndex: caseIndex, Outcome: OutcomePassed}
}

func Failed(caseIndex int, reason string) Verdict {
	return Verdict{CaseIndex: caseIndex, Outcome: OutcomeFailed, Reason: reason}
}

func (v Verdict) Passed() bool {
	return v.Outcome == OutcomePassed
}
