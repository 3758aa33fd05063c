package execution

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"gitlab.com/codepad.net/internal/adapter/logging"
	"gitlab.com/codepad.net/internal/adapter/memory"
	"gitlab.com/codepad.net/internal/config"
	"gitlab.com/codepad.net/internal/domain"
	"gitlab.com/codepad.net/internal/static/errs"
)

type fakeExecutor struct {
	mu          sync.Mutex
	calls       []domain.Submission
	inFlight    int
	maxInFlight int
	respond     func(ctx context.Context, call int, sub domain.Submission) domain.ExecutionResult
}

func (f *fakeExecutor) Execute(ctx context.Context, sub domain.Submission) domain.ExecutionResult {
	f.mu.Lock()
	f.calls = append(f.calls, sub)
	call := len(f.calls)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	res := f.respond(ctx, call, sub)

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
	return res
}

func (f *fakeExecutor) Calls() []domain.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Submission(nil), f.calls...)
}

// byStdin answers with the stdout registered for the submission's stdin
func byStdin(outputs map[string]domain.ExecutionResult) func(context.Context, int, domain.Submission) domain.ExecutionResult {
	return func(_ context.Context, _ int, sub domain.Submission) domain.ExecutionResult {
		return outputs[sub.Stdin]
	}
}

type fakeHistory struct {
	records chan string
	err     error
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{records: make(chan string, 16)}
}

func (f *fakeHistory) Record(_ context.Context, language, code string) error {
	f.records <- language + ":" + code
	return f.err
}

func (f *fakeHistory) List(context.Context) ([]*domain.HistorySnippet, error) {
	return nil, nil
}

func newTestService(exec *fakeExecutor, hist *fakeHistory, cfg *config.RunSvcCfg) *ExecutionService {
	if cfg == nil {
		cfg = &config.RunSvcCfg{HistoryWriteTimeout: time.Second}
	}
	return NewExecutionService(exec, memory.NewRunStore(), hist, logging.NewNopLogger(), cfg, 71)
}

func requireOneHistoryRecord(t *testing.T, hist *fakeHistory, want string) {
	t.Helper()
	select {
	case got := <-hist.records:
		require.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatal("history was not recorded")
	}
	select {
	case got := <-hist.records:
		t.Fatalf("unexpected second history record %q", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRunTestSuiteKeepsOrderAndSerializes(t *testing.T) {
	exec := &fakeExecutor{respond: func(_ context.Context, _ int, sub domain.Submission) domain.ExecutionResult {
		time.Sleep(5 * time.Millisecond)
		return domain.NewStdout(sub.Stdin + "\n")
	}}
	hist := newFakeHistory()
	svc := newTestService(exec, hist, nil)

	cases := []domain.TestCase{
		{Input: "a", ExpectedOutput: "a"},
		{Input: "", ExpectedOutput: "skipped"},
		{Input: "b", ExpectedOutput: "x"},
		{Input: "c", ExpectedOutput: "c"},
	}

	var observed []domain.Verdict
	state, err := svc.RunTestSuite(context.Background(), SuiteRequest{
		Owner:      "alice",
		SourceCode: "print(input())",
		TestCases:  cases,
		Observer:   func(v domain.Verdict) { observed = append(observed, v) },
	})
	require.NoError(t, err)

	require.Equal(t, domain.RunStatusCompleted, state.Status)
	require.Equal(t, []domain.Verdict{
		domain.Passed(1),
		domain.Failed(2, "expected x, got b"),
		domain.Passed(3),
	}, state.Verdicts)
	require.Equal(t, state.Verdicts, observed)
	require.Equal(t, domain.RunSummary{Total: 3, Passed: 2, Failed: 1}, state.Summary())

	calls := exec.Calls()
	require.Len(t, calls, 3)
	require.Equal(t, []string{"a", "b", "c"}, []string{calls[0].Stdin, calls[1].Stdin, calls[2].Stdin})
	require.Equal(t, 71, calls[0].LanguageID)
	require.Equal(t, 1, exec.maxInFlight)

	requireOneHistoryRecord(t, hist, "python:print(input())")

	stored, err := svc.GetRun(context.Background(), "alice", state.ID)
	require.NoError(t, err)
	require.Equal(t, state.Verdicts, stored.Verdicts)
	require.Equal(t, domain.RunStatusCompleted, stored.Status)
}

func TestRunTestSuiteSurvivesTransportFailure(t *testing.T) {
	exec := &fakeExecutor{respond: func(_ context.Context, call int, sub domain.Submission) domain.ExecutionResult {
		if call == 2 {
			return domain.NewTransportFailure("unexpected status: 503 Service Unavailable")
		}
		return domain.NewStdout(sub.Stdin)
	}}
	svc := newTestService(exec, newFakeHistory(), nil)

	state, err := svc.RunTestSuite(context.Background(), SuiteRequest{
		SourceCode: "echo",
		TestCases: []domain.TestCase{
			{Input: "1", ExpectedOutput: "1"},
			{Input: "2", ExpectedOutput: "2"},
			{Input: "3", ExpectedOutput: "4"},
		},
	})
	require.NoError(t, err)

	require.Equal(t, []domain.Verdict{
		domain.Passed(1),
		domain.Failed(2, "transport error: unexpected status: 503 Service Unavailable"),
		domain.Failed(3, "expected 4, got 3"),
	}, state.Verdicts)
	require.Equal(t, domain.AnonymousOwner, state.Owner)
}

func TestRunTestSuiteWithoutValidCases(t *testing.T) {
	for _, cases := range [][]domain.TestCase{
		nil,
		{{Input: "", ExpectedOutput: ""}},
	} {
		exec := &fakeExecutor{respond: byStdin(nil)}
		hist := newFakeHistory()
		svc := newTestService(exec, hist, nil)

		state, err := svc.RunTestSuite(context.Background(), SuiteRequest{SourceCode: "x", TestCases: cases})
		require.NoError(t, err)

		require.Equal(t, []domain.Verdict{domain.Failed(0, domain.NoValidTestCaseMessage)}, state.Verdicts)
		require.Empty(t, exec.Calls())
		requireOneHistoryRecord(t, hist, "python:x")
	}
}

func TestRunTestSuiteScenarios(t *testing.T) {
	exec := &fakeExecutor{respond: byStdin(map[string]domain.ExecutionResult{
		"5\n3": domain.NewStdout("8\n"),
		"1":    domain.NewStderr("Traceback (most recent call last):\n  File \"main.py\", line 2\nZeroDivisionError: division by zero\n"),
	})}
	svc := newTestService(exec, newFakeHistory(), nil)

	state, err := svc.RunTestSuite(context.Background(), SuiteRequest{
		SourceCode: "a, b = int(input()), int(input())\nprint(a + b)",
		TestCases: []domain.TestCase{
			{Input: "5\n3", ExpectedOutput: "8"},
			{Input: "1", ExpectedOutput: "x"},
		},
	})
	require.NoError(t, err)

	require.True(t, state.Verdicts[0].Passed())
	require.False(t, state.Verdicts[1].Passed())
	require.Equal(t, "runtime error: ZeroDivisionError: division by zero", state.Verdicts[1].Reason)
	require.Contains(t, state.Verdicts[1].Stderr, "Traceback")
}

func TestRunTestSuiteCancel(t *testing.T) {
	exec := &fakeExecutor{respond: func(_ context.Context, _ int, sub domain.Submission) domain.ExecutionResult {
		return domain.NewStdout(sub.Stdin)
	}}
	svc := newTestService(exec, newFakeHistory(), nil)
	ctx := context.Background()

	cancelActive := func(domain.Verdict) {
		svc.active.Range(func(id uuid.UUID, _ activeRun) bool {
			require.NoError(t, svc.CancelRun(ctx, "", id))
			return true
		})
	}

	state, err := svc.RunTestSuite(ctx, SuiteRequest{
		SourceCode: "echo",
		TestCases: []domain.TestCase{
			{Input: "1", ExpectedOutput: "1"},
			{Input: "2", ExpectedOutput: "2"},
			{Input: "3", ExpectedOutput: "3"},
		},
		Observer: cancelActive,
	})
	require.NoError(t, err)

	require.Equal(t, domain.RunStatusCancelled, state.Status)
	require.Equal(t, []domain.Verdict{
		domain.Passed(1),
		domain.Failed(2, domain.CancelledMessage),
		domain.Failed(3, domain.CancelledMessage),
	}, state.Verdicts)
	require.Len(t, exec.Calls(), 1)

	// finished runs can no longer be cancelled but are still known
	require.NoError(t, svc.CancelRun(ctx, domain.AnonymousOwner, state.ID))
	require.ErrorIs(t, svc.CancelRun(ctx, domain.AnonymousOwner, uuid.New()), errs.ErrRunNotFound)
}

func TestRunTestSuiteTimeout(t *testing.T) {
	exec := &fakeExecutor{respond: func(ctx context.Context, _ int, _ domain.Submission) domain.ExecutionResult {
		<-ctx.Done()
		return domain.NewTransportFailure(ctx.Err().Error())
	}}
	svc := newTestService(exec, newFakeHistory(), &config.RunSvcCfg{
		RunTimeout:          20 * time.Millisecond,
		HistoryWriteTimeout: time.Second,
	})

	state, err := svc.RunTestSuite(context.Background(), SuiteRequest{
		SourceCode: "while True: pass",
		TestCases: []domain.TestCase{
			{Input: "1", ExpectedOutput: "1"},
			{Input: "2", ExpectedOutput: "2"},
		},
	})
	require.NoError(t, err)

	require.Equal(t, domain.RunStatusCancelled, state.Status)
	require.Equal(t, []domain.Verdict{
		domain.Failed(1, domain.TimedOutMessage),
		domain.Failed(2, domain.TimedOutMessage),
	}, state.Verdicts)
	require.Len(t, exec.Calls(), 1)
}

func TestOneActiveRunPerOwner(t *testing.T) {
	release := make(chan struct{})
	exec := &fakeExecutor{respond: func(_ context.Context, _ int, sub domain.Submission) domain.ExecutionResult {
		if sub.SourceCode == "slow" {
			<-release
		}
		return domain.NewStdout(sub.Stdin)
	}}
	svc := newTestService(exec, newFakeHistory(), nil)
	ctx := context.Background()
	cases := []domain.TestCase{{Input: "1", ExpectedOutput: "1"}}

	runID, err := svc.StartTestSuite(ctx, SuiteRequest{Owner: "alice", SourceCode: "slow", TestCases: cases})
	require.NoError(t, err)

	_, err = svc.RunTestSuite(ctx, SuiteRequest{Owner: "alice", SourceCode: "fast", TestCases: cases})
	require.ErrorIs(t, err, errs.ErrRunInProgress)

	state, err := svc.RunTestSuite(ctx, SuiteRequest{Owner: "bob", SourceCode: "fast", TestCases: cases})
	require.NoError(t, err)
	require.True(t, state.Verdicts[0].Passed())

	running, err := svc.GetRun(ctx, "alice", runID)
	require.NoError(t, err)
	require.Equal(t, domain.RunStatusRunning, running.Status)

	close(release)
	require.Eventually(t, func() bool {
		state, err := svc.GetRun(ctx, "alice", runID)
		return err == nil && state.Status == domain.RunStatusCompleted
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		_, err := svc.RunTestSuite(ctx, SuiteRequest{Owner: "alice", SourceCode: "fast", TestCases: cases})
		return err == nil
	}, time.Second, 5*time.Millisecond)
}

func TestStartTestSuiteWithoutValidCasesIsPollable(t *testing.T) {
	hist := newFakeHistory()
	svc := newTestService(&fakeExecutor{respond: byStdin(nil)}, hist, nil)

	runID, err := svc.StartTestSuite(context.Background(), SuiteRequest{SourceCode: "x"})
	require.NoError(t, err)

	state, err := svc.GetRun(context.Background(), "", runID)
	require.NoError(t, err)
	require.Equal(t, domain.NoValidTestCaseMessage, state.Verdicts[0].Reason)
	requireOneHistoryRecord(t, hist, "python:x")

	_, err = svc.GetRun(context.Background(), "", uuid.New())
	require.ErrorIs(t, err, errs.ErrRunNotFound)
}

func TestRunsAreVisibleToTheirOwnerOnly(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	exec := &fakeExecutor{respond: func(ctx context.Context, _ int, sub domain.Submission) domain.ExecutionResult {
		select {
		case <-release:
		case <-ctx.Done():
			return domain.NewTransportFailure(ctx.Err().Error())
		}
		return domain.NewStdout(sub.Stdin)
	}}
	svc := newTestService(exec, newFakeHistory(), nil)
	ctx := context.Background()

	runID, err := svc.StartTestSuite(ctx, SuiteRequest{
		Owner:      "alice",
		SourceCode: "echo",
		TestCases:  []domain.TestCase{{Input: "1", ExpectedOutput: "1"}},
	})
	require.NoError(t, err)

	_, err = svc.GetRun(ctx, "mallory", runID)
	require.ErrorIs(t, err, errs.ErrRunNotFound)
	require.ErrorIs(t, svc.CancelRun(ctx, "mallory", runID), errs.ErrRunNotFound)
	require.ErrorIs(t, svc.CancelRun(ctx, "", runID), errs.ErrRunNotFound)

	state, err := svc.GetRun(ctx, "alice", runID)
	require.NoError(t, err)
	require.Equal(t, domain.RunStatusRunning, state.Status)

	require.NoError(t, svc.CancelRun(ctx, "alice", runID))
	require.Eventually(t, func() bool {
		state, err := svc.GetRun(ctx, "alice", runID)
		return err == nil && state.Status == domain.RunStatusCancelled
	}, time.Second, 5*time.Millisecond)
}

type refreshCountingStore struct {
	*memory.RunStore
	mu        sync.Mutex
	refreshes int
}

func (s *refreshCountingStore) RefreshLock(ctx context.Context, owner string, runID uuid.UUID) (bool, error) {
	s.mu.Lock()
	s.refreshes++
	s.mu.Unlock()
	return s.RunStore.RefreshLock(ctx, owner, runID)
}

func TestRunTestSuiteRefreshesLockAfterEveryVerdict(t *testing.T) {
	exec := &fakeExecutor{respond: func(_ context.Context, _ int, sub domain.Submission) domain.ExecutionResult {
		return domain.NewStdout(sub.Stdin)
	}}
	store := &refreshCountingStore{RunStore: memory.NewRunStore()}
	svc := NewExecutionService(exec, store, newFakeHistory(), logging.NewNopLogger(),
		&config.RunSvcCfg{HistoryWriteTimeout: time.Second}, 71)

	state, err := svc.RunTestSuite(context.Background(), SuiteRequest{
		Owner:      "alice",
		SourceCode: "echo",
		TestCases: []domain.TestCase{
			{Input: "1", ExpectedOutput: "1"},
			{Input: "2", ExpectedOutput: "2"},
			{Input: "3", ExpectedOutput: "3"},
		},
	})
	require.NoError(t, err)
	require.Len(t, state.Verdicts, 3)

	store.mu.Lock()
	require.Equal(t, 3, store.refreshes)
	store.mu.Unlock()

	held, err := store.RefreshLock(context.Background(), "alice", state.ID)
	require.NoError(t, err)
	require.False(t, held)

	ok, err := store.AcquireLock(context.Background(), "alice", uuid.New())
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRunOnce(t *testing.T) {
	exec := &fakeExecutor{respond: func(_ context.Context, _ int, sub domain.Submission) domain.ExecutionResult {
		return domain.NewStdout("hello")
	}}
	hist := newFakeHistory()
	svc := newTestService(exec, hist, nil)

	res, err := svc.RunOnce(context.Background(), RunOnceRequest{SourceCode: "package main", LanguageID: 60})
	require.NoError(t, err)
	require.Equal(t, domain.NewStdout("hello"), res)
	require.Equal(t, domain.NewSubmission("package main", "", 60), exec.Calls()[0])
	requireOneHistoryRecord(t, hist, "go:package main")

	_, err = svc.RunOnce(context.Background(), RunOnceRequest{})
	require.ErrorIs(t, err, errs.ErrEmptySourceCode)
}

func TestHistoryFailureDoesNotAffectVerdicts(t *testing.T) {
	exec := &fakeExecutor{respond: func(_ context.Context, _ int, sub domain.Submission) domain.ExecutionResult {
		return domain.NewStdout(sub.Stdin)
	}}
	hist := newFakeHistory()
	hist.err = errors.New("db down")
	svc := newTestService(exec, hist, nil)

	state, err := svc.RunTestSuite(context.Background(), SuiteRequest{
		SourceCode: "echo",
		TestCases:  []domain.TestCase{{Input: "1", ExpectedOutput: "1"}},
	})
	require.NoError(t, err)
	require.True(t, state.Verdicts[0].Passed())
	requireOneHistoryRecord(t, hist, "python:echo")
}
