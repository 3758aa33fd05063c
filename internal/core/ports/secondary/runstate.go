package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/codepad.net/internal/domain"
)

// RunStateRepository keeps run snapshots for polling and guards one active run per owner
type RunStateRepository interface {
	// Save stores a snapshot of the run, replacing the previous one
	Save(ctx context.Context, state *domain.RunState) error

	// Get returns the latest snapshot, or nil when the run is unknown or expired
	Get(ctx context.Context, runID uuid.UUID) (*domain.RunState, error)

	// AcquireLock marks runID as the active run of owner. It returns false when
	// another run already holds the lock.
	AcquireLock(ctx context.Context, owner string, runID uuid.UUID) (bool, error)

	// RefreshLock extends the owner lock while runID still holds it. It returns
	// false when the lock was lost.
	RefreshLock(ctx context.Context, owner string, runID uuid.UUID) (bool, error)

	// ReleaseLock frees the owner lock if it is still held by runID
	ReleaseLock(ctx context.Context, owner string, runID uuid.UUID) error
}
