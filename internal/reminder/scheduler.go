package reminder

import (
	"context"
	"time"

	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
)

type userSource interface {
	ListIDs(ctx context.Context) ([]string, error)
}

// Scheduler drives the periodic trigger. Page-visit and manual triggers come
// in through the HTTP surface; this loop only re-evaluates on a timer.
type Scheduler struct {
	svc      Service
	users    userSource
	interval time.Duration
	logg     *logger.Logger
}

func NewScheduler(svc Service, users userSource, interval time.Duration, logg *logger.Logger) (*Scheduler, error) {
	if svc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reminder: service is required")
	}
	if users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reminder: user source is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reminder: logger is required")
	}
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &Scheduler{svc: svc, users: users, interval: interval, logg: logg}, nil
}

// Run blocks until ctx is cancelled. Individual evaluation failures are
// logged and do not stop the loop.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logg.Info(ctx, "reminder scheduler started")
	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "reminder scheduler stopped")
			return
		case <-ticker.C:
			s.evaluateAll(ctx)
		}
	}
}

func (s *Scheduler) evaluateAll(ctx context.Context) {
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		s.logg.Error(ctx, "reminder scheduler: list users", err)
		return
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.svc.Evaluate(ctx, id, TriggerPeriodic); err != nil {
			lctx := s.logg.WithUserID(ctx, id)
			s.logg.Error(lctx, "reminder scheduler: evaluate", err)
		}
	}
}
