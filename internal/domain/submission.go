package domain

// Submission represents one program+stdin execution request sent to the remote executor
type Submission struct {
	SourceCode string
	Stdin      string
	LanguageID int
}

// NewSubmission creates a new submission
func NewSubmission(sourceCode, stdin string, languageID int) Submission {
	return Submission{
		SourceCode: sourceCode,
		Stdin:      stdin,
		LanguageID: languageID,
	}
}

// WithStdin returns a copy of the submission fed with the given stdin
func (s Submission) WithStdin(stdin string) Submission {
	s.Stdin = stdin
	return s
}
