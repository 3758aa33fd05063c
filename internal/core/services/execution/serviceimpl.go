package execution

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"gitlab.com/codepad.net/internal/config"
	"gitlab.com/codepad.net/internal/core/ports/primary"
	"gitlab.com/codepad.net/internal/core/ports/secondary"
	"gitlab.com/codepad.net/internal/core/services/history"
	"gitlab.com/codepad.net/internal/domain"
	"gitlab.com/codepad.net/internal/static/errs"
)

var _ IExecutionService = (*ExecutionService)(nil)

const defaultHistoryWriteTimeout = 5 * time.Second

// ExecutionService implements the IExecutionService interface
type ExecutionService struct {
	executor        secondary.CodeExecutor
	runStore        secondary.RunStateRepository
	historySvc      history.IHistoryService
	logger          primary.Logger
	cfg             *config.RunSvcCfg
	defaultLanguage int

	// active maps the ID of every running suite to its owner and cancel func
	active         *xsync.MapOf[uuid.UUID, activeRun]
	historyWriters sync.WaitGroup
}

type activeRun struct {
	owner  string
	cancel context.CancelFunc
}

// NewExecutionService creates a new execution service
func NewExecutionService(
	executor secondary.CodeExecutor,
	runStore secondary.RunStateRepository,
	historySvc history.IHistoryService,
	logger primary.Logger,
	cfg *config.RunSvcCfg,
	defaultLanguage int,
) *ExecutionService {
	return &ExecutionService{
		executor:        executor,
		runStore:        runStore,
		historySvc:      historySvc,
		logger:          logger,
		cfg:             cfg,
		defaultLanguage: defaultLanguage,
		active:          xsync.NewMapOf[uuid.UUID, activeRun](),
	}
}

// RunOnce executes the code once with empty stdin
func (s *ExecutionService) RunOnce(ctx context.Context, req RunOnceRequest) (domain.ExecutionResult, error) {
	if req.SourceCode == "" {
		return domain.ExecutionResult{}, errs.ErrEmptySourceCode
	}

	languageID := s.language(req.LanguageID)
	s.recordHistory(languageID, req.SourceCode)

	result := s.executor.Execute(ctx, domain.NewSubmission(req.SourceCode, "", languageID))
	s.logger.Debug("Run once finished", "languageId", languageID, "kind", result.Kind)

	return result, nil
}

// RunTestSuite runs every valid test case in order and blocks until the run ends
func (s *ExecutionService) RunTestSuite(ctx context.Context, req SuiteRequest) (*domain.RunState, error) {
	if req.SourceCode == "" {
		return nil, errs.ErrEmptySourceCode
	}

	valid := domain.FilterValid(req.TestCases)
	if len(valid) == 0 {
		languageID := s.language(req.LanguageID)
		s.recordHistory(languageID, req.SourceCode)
		return domain.NewInvalidSuiteState(ownerOf(req.Owner), languageID), nil
	}

	run, runCtx, err := s.prepare(ctx, ctx, req, valid)
	if err != nil {
		return nil, err
	}

	return run.execute(runCtx), nil
}

// StartTestSuite starts the run in the background and returns its ID.
// The run outlives ctx; use CancelRun to stop it.
func (s *ExecutionService) StartTestSuite(ctx context.Context, req SuiteRequest) (uuid.UUID, error) {
	if req.SourceCode == "" {
		return uuid.Nil, errs.ErrEmptySourceCode
	}

	valid := domain.FilterValid(req.TestCases)
	if len(valid) == 0 {
		languageID := s.language(req.LanguageID)
		s.recordHistory(languageID, req.SourceCode)
		state := domain.NewInvalidSuiteState(ownerOf(req.Owner), languageID)
		if err := s.runStore.Save(ctx, state); err != nil {
			return uuid.Nil, fmt.Errorf("failed to save run state: %w", err)
		}
		return state.ID, nil
	}

	run, runCtx, err := s.prepare(ctx, context.Background(), req, valid)
	if err != nil {
		return uuid.Nil, err
	}

	go run.execute(runCtx)

	return run.state.ID, nil
}

// GetRun returns the latest snapshot of a run. Runs of other owners are
// reported as not found.
func (s *ExecutionService) GetRun(ctx context.Context, owner string, runID uuid.UUID) (*domain.RunState, error) {
	state, err := s.runStore.Get(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	if state == nil || state.Owner != ownerOf(owner) {
		return nil, errs.ErrRunNotFound
	}
	return state, nil
}

// CancelRun stops an active run of owner before its next test case.
// Cancelling a finished run is a no-op.
func (s *ExecutionService) CancelRun(ctx context.Context, owner string, runID uuid.UUID) error {
	if run, ok := s.active.Load(runID); ok && run.owner == ownerOf(owner) {
		s.logger.Info("Cancelling run", "runId", runID, "owner", run.owner)
		run.cancel()
		return nil
	}

	if _, err := s.GetRun(ctx, owner, runID); err != nil {
		return err
	}
	return nil
}

// prepare takes the owner lock, registers the run for cancellation and moves
// it to running. The run context derives from parent, the lock calls use ctx.
func (s *ExecutionService) prepare(ctx, parent context.Context, req SuiteRequest, cases []domain.TestCase) (*suiteRun, context.Context, error) {
	languageID := s.language(req.LanguageID)
	state := domain.NewRunState(ownerOf(req.Owner), languageID, len(cases))

	locked, err := s.runStore.AcquireLock(ctx, state.Owner, state.ID)
	if err != nil {
		// the lock is advisory, a broken store must not block every run
		s.logger.Warn("Run lock unavailable", "owner", state.Owner, "error", err)
		locked = true
	}
	if !locked {
		return nil, nil, errs.ErrRunInProgress
	}

	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if s.cfg.RunTimeout > 0 {
		runCtx, cancel = context.WithTimeout(parent, s.cfg.RunTimeout)
	} else {
		runCtx, cancel = context.WithCancel(parent)
	}
	s.active.Store(state.ID, activeRun{owner: state.Owner, cancel: cancel})

	state.Start()
	s.recordHistory(languageID, req.SourceCode)
	s.logger.Info("Test suite started",
		"runId", state.ID,
		"owner", state.Owner,
		"languageId", languageID,
		"cases", len(cases))

	run := &suiteRun{
		state:      state,
		submission: domain.NewSubmission(req.SourceCode, "", languageID),
		cases:      cases,
		executor:   s.executor,
		runStore:   s.runStore,
		logger:     s.logger,
		observer:   req.Observer,
		release: func() {
			s.active.Delete(state.ID)
			cancel()
			if err := s.runStore.ReleaseLock(context.Background(), state.Owner, state.ID); err != nil {
				s.logger.Warn("Failed to release run lock", "runId", state.ID, "error", err)
			}
		},
	}
	run.save(runCtx)

	return run, runCtx, nil
}

// recordHistory writes one history entry without holding up the run
func (s *ExecutionService) recordHistory(languageID int, code string) {
	s.historyWriters.Add(1)
	go func() {
		defer s.historyWriters.Done()

		timeout := s.cfg.HistoryWriteTimeout
		if timeout <= 0 {
			timeout = defaultHistoryWriteTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := s.historySvc.Record(ctx, domain.LanguageName(languageID), code); err != nil {
			s.logger.Warn("Failed to record history", "error", err)
		}
	}()
}

// Close cancels active runs and waits for pending history writes
func (s *ExecutionService) Close() {
	s.active.Range(func(_ uuid.UUID, run activeRun) bool {
		run.cancel()
		return true
	})
	s.historyWriters.Wait()
}

func (s *ExecutionService) language(requested int) int {
	if requested == 0 {
		return s.defaultLanguage
	}
	return requested
}

func ownerOf(owner string) string {
	if owner == "" {
		return domain.AnonymousOwner
	}
	return owner
}
