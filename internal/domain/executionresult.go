package domain

// ResultKind tells which output of a remote execution was populated
type ResultKind string

const (
	ResultStdout           ResultKind = "STDOUT"
	ResultStderr           ResultKind = "STDERR"
	ResultCompileError     ResultKind = "COMPILE_ERROR"
	ResultStatusMessage    ResultKind = "STATUS_MESSAGE"
	ResultTransportFailure ResultKind = "TRANSPORT_FAILURE"
)

// NoOutputMessage is reported when the executor answered without any output or status
const NoOutputMessage = "no output received"

// ExecutionResult is the normalized outcome of one remote execution.
// Exactly one kind is populated per completed attempt; Text holds its payload.
type ExecutionResult struct {
	Kind ResultKind `json:"kind"`
	Text string     `json:"text"`
}

func NewStdout(text string) ExecutionResult {
	return ExecutionResult{Kind: ResultStdout, Text: text}
}

func NewStderr(text string) ExecutionResult {
	return ExecutionResult{Kind: ResultStderr, Text: text}
}

func NewCompileError(text string) ExecutionResult {
	return ExecutionResult{Kind: ResultCompileError, Text: text}
}

func NewStatusMessage(text string) ExecutionResult {
	return ExecutionResult{Kind: ResultStatusMessage, Text: text}
}

// NewTransportFailure wraps a network or protocol level failure
func NewTransportFailure(reason string) ExecutionResult {
	return ExecutionResult{Kind: ResultTransportFailure, Text: reason}
}

// IsTransportFailure reports whether the remote service could not be reached or understood
func (r ExecutionResult) IsTransportFailure() bool {
	return r.Kind == ResultTransportFailure
}
