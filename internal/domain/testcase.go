package domain

// TestCase represents one (input, expected output) pair of a custom question
type TestCase struct {
	Input          string `json:"input" toml:"input" yaml:"input"`
	ExpectedOutput string `json:"expected_output" toml:"expected_output" yaml:"expected_output"`
}

// Valid reports whether both input and expected output are present
func (t TestCase) Valid() bool {
	return t.Input != "" && t.ExpectedOutput != ""
}

// FilterValid drops invalid test cases, keeping the original order
func FilterValid(cases []TestCase) []TestCase {
	valid := make([]TestCase, 0, len(cases))
	for _, tc := range cases {
		if tc.Valid() {
			valid = append(valid, tc)
		}
	}
	return valid
}
