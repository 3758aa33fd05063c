package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the status of a test suite run
type RunStatus string

const (
	RunStatusIdle      RunStatus = "IDLE"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusCancelled RunStatus = "CANCELLED"
)

// Reasons given to cases that were never evaluated because the run stopped early
const (
	CancelledMessage = "run cancelled"
	TimedOutMessage  = "run timed out"
)

// RunState is the value a presentation layer renders for one test suite run
type RunState struct {
	ID          uuid.UUID  `json:"id"`
	Owner       string     `json:"owner"`
	Status      RunStatus  `json:"status"`
	LanguageID  int        `json:"language_id"`
	Total       int        `json:"total"`
	Verdicts    []Verdict  `json:"verdicts"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RunSummary counts the verdicts of a run
type RunSummary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// NewRunState creates an idle run expecting total verdicts
func NewRunState(owner string, languageID, total int) *RunState {
	return &RunState{
		ID:         uuid.New(),
		Owner:      owner,
		Status:     RunStatusIdle,
		LanguageID: languageID,
		Total:      total,
		Verdicts:   make([]Verdict, 0, total),
	}
}

// NewInvalidSuiteState is the completed state returned when no valid test case was supplied
func NewInvalidSuiteState(owner string, languageID int) *RunState {
	now := time.Now()
	return &RunState{
		ID:          uuid.New(),
		Owner:       owner,
		Status:      RunStatusCompleted,
		LanguageID:  languageID,
		Total:       0,
		Verdicts:    []Verdict{Failed(0, NoValidTestCaseMessage)},
		StartedAt:   &now,
		CompletedAt: &now,
	}
}

func (r *RunState) Start() {
	now := time.Now()
	r.Status = RunStatusRunning
	r.StartedAt = &now
}

func (r *RunState) Record(v Verdict) {
	r.Verdicts = append(r.Verdicts, v)
}

// Finish moves the run to its terminal status
func (r *RunState) Finish(status RunStatus) {
	now := time.Now()
	r.Status = status
	r.CompletedAt = &now
}

func (r *RunState) Done() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusCancelled
}

func (r *RunState) Summary() RunSummary {
	s := RunSummary{Total: len(r.Verdicts)}
	for _, v := range r.Verdicts {
		if v.Passed() {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// Clone returns a deep copy safe to hand to another goroutine
func (r *RunState) Clone() *RunState {
	c := *r
	c.Verdicts = append([]Verdict(nil), r.Verdicts...)
	if r.StartedAt != nil {
		t := *r.StartedAt
		c.StartedAt = &t
	}
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
