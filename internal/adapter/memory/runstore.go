package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"gitlab.com/codepad.net/internal/core/ports/secondary"
	"gitlab.com/codepad.net/internal/domain"
)

var _ secondary.RunStateRepository = (*RunStore)(nil)

// RunStore keeps run snapshots and owner locks in process memory.
// Finished snapshots stay until PruneFinished removes them.
type RunStore struct {
	states *xsync.MapOf[uuid.UUID, *domain.RunState]
	locks  *xsync.MapOf[string, uuid.UUID]
}

func NewRunStore() *RunStore {
	return &RunStore{
		states: xsync.NewMapOf[uuid.UUID, *domain.RunState](),
		locks:  xsync.NewMapOf[string, uuid.UUID](),
	}
}

func (r *RunStore) Save(_ context.Context, state *domain.RunState) error {
	r.states.Store(state.ID, state.Clone())
	return nil
}

func (r *RunStore) Get(_ context.Context, runID uuid.UUID) (*domain.RunState, error) {
	state, ok := r.states.Load(runID)
	if !ok {
		return nil, nil
	}
	return state.Clone(), nil
}

func (r *RunStore) AcquireLock(_ context.Context, owner string, runID uuid.UUID) (bool, error) {
	holder, loaded := r.locks.LoadOrStore(owner, runID)
	return !loaded || holder == runID, nil
}

// RefreshLock only checks ownership, memory locks never expire
func (r *RunStore) RefreshLock(_ context.Context, owner string, runID uuid.UUID) (bool, error) {
	holder, ok := r.locks.Load(owner)
	return ok && holder == runID, nil
}

func (r *RunStore) ReleaseLock(_ context.Context, owner string, runID uuid.UUID) error {
	r.locks.Compute(owner, func(holder uuid.UUID, loaded bool) (uuid.UUID, bool) {
		// delete only our own lock
		return holder, !loaded || holder == runID
	})
	return nil
}

// PruneFinished drops finished runs completed before cutoff and returns how many were removed
func (r *RunStore) PruneFinished(_ context.Context, cutoff time.Time) (int, error) {
	removed := 0
	r.states.Range(func(id uuid.UUID, state *domain.RunState) bool {
		if state.Done() && state.CompletedAt != nil && state.CompletedAt.Before(cutoff) {
			r.states.Delete(id)
			removed++
		}
		return true
	})
	return removed, nil
}
