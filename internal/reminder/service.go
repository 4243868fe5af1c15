package reminder

import (
	"context"
	"time"

	"github.com/obinnaeze/renthaven-backend/pkg/config"
	"github.com/obinnaeze/renthaven-backend/pkg/enums"
	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
	"github.com/obinnaeze/renthaven-backend/pkg/metrics"
)

// Trigger is the reason an evaluation is happening.
type Trigger string

const (
	TriggerPageVisit Trigger = "page-visit"
	TriggerPeriodic  Trigger = "periodic"
	TriggerManual    Trigger = "manual"
)

func (t Trigger) IsValid() bool {
	switch t {
	case TriggerPageVisit, TriggerPeriodic, TriggerManual:
		return true
	}
	return false
}

// Evaluation outcomes, also used as the metrics outcome label.
const (
	OutcomeShown          = "shown"
	OutcomeAccountTypeSet = "account_type_set"
	OutcomeDismissed      = "dismissed"
	OutcomeSkipped        = "skipped"
	OutcomeCooldown       = "cooldown"
)

// Flag names under the per-user reminder namespace.
const (
	flagDismissed     = "dismissed"
	flagSkippedAt     = "skipped_at"
	flagLastShownBase = "last_shown"
)

// Decision reports whether a nudge should render and why not when it
// should not.
type Decision struct {
	Show   bool   `json:"show"`
	Reason string `json:"reason"`
}

// Service decides when to nudge a user who has not picked an account type.
// It only reads flags and the account type; it never calls a business API.
type Service interface {
	// Evaluate runs the trigger's eligibility rules and, when the nudge
	// should show, stamps the trigger's last-shown time.
	Evaluate(ctx context.Context, userID string, trigger Trigger) (*Decision, error)
	// Skip suppresses nudges temporarily; the flag re-arms on its own.
	Skip(ctx context.Context, userID string) error
	// Dismiss suppresses nudges until ClearDismissal.
	Dismiss(ctx context.Context, userID string) error
	// ClearDismissal removes both the permanent and the transient flag.
	ClearDismissal(ctx context.Context, userID string) error
}

type accountTypeReader interface {
	Get(ctx context.Context, userID string) (enums.AccountType, error)
}

type service struct {
	flags    FlagStore
	types    accountTypeReader
	cfg      config.ReminderConfig
	recorder *metrics.ReminderMetrics
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(flags FlagStore, types accountTypeReader, cfg config.ReminderConfig, recorder *metrics.ReminderMetrics, logg *logger.Logger) (Service, error) {
	if flags == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reminder: flag store is required")
	}
	if types == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reminder: account type reader is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reminder: logger is required")
	}
	return &service{flags: flags, types: types, cfg: cfg, recorder: recorder, logg: logg, now: time.Now}, nil
}

func (s *service) Evaluate(ctx context.Context, userID string, trigger Trigger) (*Decision, error) {
	if !trigger.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown reminder trigger").
			WithDetails(map[string]any{"trigger": string(trigger)})
	}

	accountType, err := s.types.Get(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reminder: read account type")
	}
	if accountType.IsSet() {
		return s.decide(trigger, false, OutcomeAccountTypeSet), nil
	}

	if _, dismissed, err := s.flags.Get(ctx, userID, flagDismissed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reminder: read dismissed flag")
	} else if dismissed {
		return s.decide(trigger, false, OutcomeDismissed), nil
	}

	if _, skipped, err := s.flags.Get(ctx, userID, flagSkippedAt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reminder: read skip flag")
	} else if skipped {
		return s.decide(trigger, false, OutcomeSkipped), nil
	}

	cooldown := s.cooldownFor(trigger)
	if cooldown > 0 {
		raw, found, err := s.flags.Get(ctx, userID, lastShownFlag(trigger))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reminder: read last shown")
		}
		if found {
			lastShown, parseErr := time.Parse(time.RFC3339Nano, raw)
			if parseErr == nil && s.now().Sub(lastShown) < cooldown {
				return s.decide(trigger, false, OutcomeCooldown), nil
			}
		}
	}

	stamp := s.now().UTC().Format(time.RFC3339Nano)
	if err := s.flags.Set(ctx, userID, lastShownFlag(trigger), stamp, 0); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reminder: stamp last shown")
	}

	lctx := s.logg.WithFields(ctx, map[string]any{"userId": userID, "trigger": string(trigger)})
	s.logg.Debug(lctx, "reminder shown")
	return s.decide(trigger, true, OutcomeShown), nil
}

func (s *service) Skip(ctx context.Context, userID string) error {
	stamp := s.now().UTC().Format(time.RFC3339Nano)
	if err := s.flags.Set(ctx, userID, flagSkippedAt, stamp, s.cfg.SkipRearmAfter); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reminder: set skip flag")
	}
	return nil
}

func (s *service) Dismiss(ctx context.Context, userID string) error {
	if err := s.flags.Set(ctx, userID, flagDismissed, "1", 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reminder: set dismissed flag")
	}
	lctx := s.logg.WithField(ctx, "userId", userID)
	s.logg.Info(lctx, "reminder permanently dismissed")
	return nil
}

func (s *service) ClearDismissal(ctx context.Context, userID string) error {
	if err := s.flags.Clear(ctx, userID, flagDismissed, flagSkippedAt); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reminder: clear flags")
	}
	return nil
}

func (s *service) decide(trigger Trigger, show bool, outcome string) *Decision {
	if s.recorder != nil {
		s.recorder.IncTrigger(string(trigger), outcome)
	}
	if show {
		return &Decision{Show: true, Reason: outcome}
	}
	return &Decision{Show: false, Reason: outcome}
}

func (s *service) cooldownFor(trigger Trigger) time.Duration {
	switch trigger {
	case TriggerPageVisit:
		return s.cfg.PageVisitCooldown
	case TriggerPeriodic:
		return s.cfg.PeriodicCooldown
	default:
		return 0
	}
}

func lastShownFlag(trigger Trigger) string {
	return flagLastShownBase + ":" + string(trigger)
}
