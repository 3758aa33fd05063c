package execution

import (
	"strings"

	"gitlab.com/codepad.net/internal/domain"
)

// Classify turns one execution result into the verdict of test case caseIndex.
// Outputs are compared after trimming surrounding whitespace on both sides.
func Classify(caseIndex int, result domain.ExecutionResult, expected string) domain.Verdict {
	switch result.Kind {
	case domain.ResultTransportFailure:
		return domain.Failed(caseIndex, "transport error: "+result.Text)
	case domain.ResultStderr:
		v := domain.Failed(caseIndex, "runtime error: "+lastNonEmptyLine(result.Text))
		v.Stderr = result.Text
		return v
	case domain.ResultStdout:
		actual := strings.TrimSpace(result.Text)
		want := strings.TrimSpace(expected)
		if actual == want {
			return domain.Passed(caseIndex)
		}
		return domain.Failed(caseIndex, "expected "+want+", got "+actual)
	default:
		// compile errors and bare status messages carry no comparable output
		return domain.Failed(caseIndex, result.Text)
	}
}

func lastNonEmptyLine(text string) string {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return text
}
