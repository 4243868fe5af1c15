package reminder

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/obinnaeze/renthaven-backend/pkg/logger"
)

type countingService struct {
	Service
	evaluations atomic.Int64
}

func (c *countingService) Evaluate(ctx context.Context, userID string, trigger Trigger) (*Decision, error) {
	c.evaluations.Add(1)
	return &Decision{Show: false, Reason: OutcomeCooldown}, nil
}

type staticUsers struct {
	ids []string
}

func (s *staticUsers) ListIDs(context.Context) ([]string, error) {
	return s.ids, nil
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	svc := &countingService{}
	sched, err := NewScheduler(svc, &staticUsers{ids: []string{"u1", "u2"}}, 5*time.Millisecond, logg)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for svc.evaluations.Load() < 4 {
		select {
		case <-deadline:
			t.Fatalf("scheduler never ticked, evaluations = %d", svc.evaluations.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
