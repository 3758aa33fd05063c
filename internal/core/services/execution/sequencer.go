package execution

import (
	"context"
	"errors"

	"gitlab.com/codepad.net/internal/core/ports/primary"
	"gitlab.com/codepad.net/internal/core/ports/secondary"
	"gitlab.com/codepad.net/internal/domain"
)

// suiteRun is the accumulator of a single test suite run. It is owned by the
// goroutine executing it and never shared between runs.
type suiteRun struct {
	state      *domain.RunState
	submission domain.Submission
	cases      []domain.TestCase
	executor   secondary.CodeExecutor
	runStore   secondary.RunStateRepository
	logger     primary.Logger
	observer   func(domain.Verdict)
	release    func()
}

// execute dispatches the cases one at a time, each only after the previous
// verdict is recorded.
func (r *suiteRun) execute(ctx context.Context) *domain.RunState {
	defer r.release()

	for i, tc := range r.cases {
		caseIndex := i + 1
		if ctx.Err() != nil {
			r.stop(ctx, caseIndex)
			return r.state
		}

		result := r.executor.Execute(ctx, r.submission.WithStdin(tc.Input))
		if result.IsTransportFailure() && ctx.Err() != nil {
			r.stop(ctx, caseIndex)
			return r.state
		}

		r.record(ctx, Classify(caseIndex, result, tc.ExpectedOutput))
	}

	r.state.Finish(domain.RunStatusCompleted)
	r.save(ctx)
	summary := r.state.Summary()
	r.logger.Info("Test suite finished",
		"runId", r.state.ID,
		"passed", summary.Passed,
		"failed", summary.Failed)

	return r.state
}

// stop fails every case from caseIndex on, so the verdict list stays complete
func (r *suiteRun) stop(ctx context.Context, caseIndex int) {
	reason := domain.CancelledMessage
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		reason = domain.TimedOutMessage
	}
	for idx := caseIndex; idx <= len(r.cases); idx++ {
		r.record(ctx, domain.Failed(idx, reason))
	}

	r.state.Finish(domain.RunStatusCancelled)
	r.save(ctx)
	r.logger.Info("Test suite cancelled", "runId", r.state.ID, "atCase", caseIndex, "reason", reason)
}

func (r *suiteRun) record(ctx context.Context, v domain.Verdict) {
	r.state.Record(v)
	if r.observer != nil {
		r.observer(v)
	}
	r.save(ctx)
	r.refreshLock(ctx)
}

// refreshLock keeps the owner lock alive for as long as cases are being run
func (r *suiteRun) refreshLock(ctx context.Context) {
	held, err := r.runStore.RefreshLock(context.WithoutCancel(ctx), r.state.Owner, r.state.ID)
	if err != nil {
		r.logger.Warn("Failed to refresh run lock", "runId", r.state.ID, "error", err)
		return
	}
	if !held {
		r.logger.Warn("Run lock lost", "runId", r.state.ID, "owner", r.state.Owner)
	}
}

func (r *suiteRun) save(ctx context.Context) {
	// snapshots must land even after the run context is cancelled
	if err := r.runStore.Save(context.WithoutCancel(ctx), r.state); err != nil {
		r.logger.Warn("Failed to save run state", "runId", r.state.ID, "error", err)
	}
}
