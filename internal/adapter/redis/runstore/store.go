// Package runstore keeps run snapshots and per-owner run locks in Redis
package runstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"gitlab.com/codepad.net/internal/core/ports/primary"
	"gitlab.com/codepad.net/internal/core/ports/secondary"
	"gitlab.com/codepad.net/internal/domain"
)

const (
	runKeyPrefix  = "run:"
	lockKeyPrefix = "run:lock:"
)

var _ secondary.RunStateRepository = (*RunStore)(nil)

// releaseScript deletes the lock only when it still belongs to the run
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// refreshScript extends the lock only when it still belongs to the run.
// A non-positive TTL leaves a lock without expiry untouched.
var refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	if tonumber(ARGV[2]) > 0 then
		redis.call("PEXPIRE", KEYS[1], ARGV[2])
	end
	return 1
end
return 0
`)

// RunStore implements the RunStateRepository interface with Redis
type RunStore struct {
	redisClient *redis.Client
	logger      primary.Logger
	stateTTL    time.Duration
	lockTTL     time.Duration
}

// NewRunStore creates a new Redis run store
func NewRunStore(redisClient *redis.Client, logger primary.Logger, stateTTL, lockTTL time.Duration) *RunStore {
	return &RunStore{
		redisClient: redisClient,
		logger:      logger,
		stateTTL:    stateTTL,
		lockTTL:     lockTTL,
	}
}

// Save stores the run snapshot with expiration
func (r *RunStore) Save(ctx context.Context, state *domain.RunState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		r.logger.Error("Failed to marshal run state", "runId", state.ID, "error", err)
		return fmt.Errorf("failed to marshal run state: %w", err)
	}

	if err := r.redisClient.Set(ctx, runKeyPrefix+state.ID.String(), stateJSON, r.stateTTL).Err(); err != nil {
		r.logger.Error("Failed to save run state", "runId", state.ID, "error", err)
		return fmt.Errorf("failed to save run state: %w", err)
	}

	return nil
}

// Get retrieves a run snapshot by ID
func (r *RunStore) Get(ctx context.Context, runID uuid.UUID) (*domain.RunState, error) {
	stateJSON, err := r.redisClient.Get(ctx, runKeyPrefix+runID.String()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		r.logger.Error("Failed to get run state", "runId", runID, "error", err)
		return nil, fmt.Errorf("failed to get run state: %w", err)
	}

	var state domain.RunState
	if err := json.Unmarshal(stateJSON, &state); err != nil {
		r.logger.Error("Failed to unmarshal run state", "runId", runID, "error", err)
		return nil, fmt.Errorf("failed to unmarshal run state: %w", err)
	}

	return &state, nil
}

// AcquireLock sets the owner lock if nobody holds it
func (r *RunStore) AcquireLock(ctx context.Context, owner string, runID uuid.UUID) (bool, error) {
	ok, err := r.redisClient.SetNX(ctx, lockKeyPrefix+owner, runID.String(), r.lockTTL).Result()
	if err != nil {
		r.logger.Error("Failed to acquire run lock", "owner", owner, "error", err)
		return false, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	return ok, nil
}

// RefreshLock resets the lock TTL while runID still holds it
func (r *RunStore) RefreshLock(ctx context.Context, owner string, runID uuid.UUID) (bool, error) {
	n, err := refreshScript.Run(ctx, r.redisClient, []string{lockKeyPrefix + owner}, runID.String(), r.lockTTL.Milliseconds()).Int()
	if err != nil {
		r.logger.Error("Failed to refresh run lock", "owner", owner, "runId", runID, "error", err)
		return false, fmt.Errorf("failed to refresh run lock: %w", err)
	}
	return n == 1, nil
}

// ReleaseLock removes the owner lock held by runID
func (r *RunStore) ReleaseLock(ctx context.Context, owner string, runID uuid.UUID) error {
	if err := releaseScript.Run(ctx, r.redisClient, []string{lockKeyPrefix + owner}, runID.String()).Err(); err != nil && err != redis.Nil {
		r.logger.Error("Failed to release run lock", "owner", owner, "runId", runID, "error", err)
		return fmt.Errorf("failed to release run lock: %w", err)
	}
	return nil
}
