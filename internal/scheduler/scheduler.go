// Package scheduler runs periodic maintenance of the persistent cache.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	DefaultPruneSpec      = "@hourly"
	Timezone              = "UTC"
	TimezoneOffsetSeconds = 0
	pruneTimeout          = 5 * time.Minute
)

// Pruner removes expired cache entries.
type Pruner interface {
	PruneExpired(ctx context.Context) (int64, error)
}

type Scheduler struct {
	ctx    context.Context
	cron   *cron.Cron
	spec   string
	pruner Pruner
	log    *slog.Logger
}

func New(ctx context.Context, spec string, pruner Pruner, log *slog.Logger) *Scheduler {
	if spec == "" {
		spec = DefaultPruneSpec
	}

	c := cron.New(cron.WithLocation(time.FixedZone(Timezone, TimezoneOffsetSeconds)))

	return &Scheduler{
		ctx:    ctx,
		cron:   c,
		spec:   spec,
		pruner: pruner,
		log:    log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.pruneCache); err != nil {
		return fmt.Errorf("add prune job (spec = %s): %w", s.spec, err)
	}

	s.cron.Start()

	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) pruneCache() {
	ctx, cancel := context.WithTimeout(s.ctx, pruneTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		s.log.InfoContext(ctx, "Scheduler context is done",
			"error", ctx.Err())
		return
	default:
	}

	removed, err := s.pruner.PruneExpired(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to prune cache",
			"error", err)
		return
	}

	s.log.InfoContext(ctx, "Pruned cache",
		"removed", removed)
}
