package schedulerengine

import (
	"context"
	"time"

	"gitlab.com/codepad.net/internal/config"
	"gitlab.com/codepad.net/internal/core/ports/primary"
)

// RunPruner is a run store that does not expire finished runs on its own
type RunPruner interface {
	PruneFinished(ctx context.Context, cutoff time.Time) (int, error)
}

// SchedulerEngine sweeps finished runs older than the state TTL
type SchedulerEngine struct {
	SchedulerCfg *config.RunSvcCfg
	pruner       RunPruner
	logger       primary.Logger
	now          func() time.Time
}

func NewSchedulerEngine(
	SchedulerCfg *config.RunSvcCfg,
	pruner RunPruner,
	logger primary.Logger,
) *SchedulerEngine {
	return &SchedulerEngine{
		SchedulerCfg: SchedulerCfg,
		pruner:       pruner,
		logger:       logger,
		now:          time.Now,
	}
}

// StartPruneEngine blocks until ctx is done, pruning on every tick
func (s *SchedulerEngine) StartPruneEngine(ctx context.Context) error {
	if s.SchedulerCfg.PruneInterval <= 0 || s.SchedulerCfg.StateTTL <= 0 {
		s.logger.Info("Run pruning disabled")
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(s.SchedulerCfg.PruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.PruneFinishedRuns(ctx)
		}
	}
}

func (s *SchedulerEngine) PruneFinishedRuns(ctx context.Context) {
	cutoff := s.now().Add(-s.SchedulerCfg.StateTTL)
	removed, err := s.pruner.PruneFinished(ctx, cutoff)
	if err != nil {
		s.logger.Error("Failed to prune finished runs", "error", err)
		return
	}
	if removed > 0 {
		s.logger.Debug("Pruned finished runs", "count", removed)
	}
}
