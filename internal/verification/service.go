package verification

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/obinnaeze/renthaven-backend/pkg/config"
	"github.com/obinnaeze/renthaven-backend/pkg/db/models"
	"github.com/obinnaeze/renthaven-backend/pkg/enums"
	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
)

// Service is the verification challenge state machine. A challenge allows a
// bounded number of code submissions; only restarting it resets the counter.
type Service interface {
	// Save starts or restarts verification for the user. Phone and email get
	// a fresh 6-digit code; the id method goes to manual review with none.
	// Restarting always resets attempts and status.
	Save(ctx context.Context, userID uuid.UUID, method enums.VerificationMethod) (*StartResultDTO, error)
	// Check submits a code. Already-verified users succeed without touching
	// the counter. At the attempt cap every submission is rejected with a
	// lockout error, even one carrying the right code.
	Check(ctx context.Context, userID uuid.UUID, code string) (*CheckResultDTO, error)
	// Status returns the record without the code.
	Status(ctx context.Context, userID uuid.UUID) (*StatusDTO, error)
}

type recordStore interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.VerificationRecord, error)
	Upsert(ctx context.Context, record *models.VerificationRecord) error
}

type service struct {
	repo    recordStore
	cfg     config.VerificationConfig
	devMode bool
	logg    *logger.Logger
}

func NewService(repo recordStore, cfg config.VerificationConfig, devMode bool, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "verification: repo is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "verification: logger is required")
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &service{repo: repo, cfg: cfg, devMode: devMode, logg: logg}, nil
}

func (s *service) Save(ctx context.Context, userID uuid.UUID, method enums.VerificationMethod) (*StartResultDTO, error) {
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid verification method").
			WithDetails(map[string]any{"method": string(method)})
	}

	record, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verification: load record")
	}
	if record == nil {
		record = &models.VerificationRecord{UserID: userID}
	}

	record.Method = method
	record.Status = enums.VerificationStatusPending
	record.Attempts = 0
	record.LastAttemptAt = nil
	record.VerifiedAt = nil
	record.Code = nil

	var debugCode string
	if method.RequiresCode() {
		code, err := generateCode()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verification: generate code")
		}
		record.Code = &code
		if s.devMode {
			debugCode = code
		}
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verification: persist record")
	}

	lctx := s.logg.WithFields(ctx, map[string]any{"userId": userID.String(), "method": string(method)})
	s.logg.Info(lctx, "verification started")

	return &StartResultDTO{StatusDTO: recordToStatus(record), DebugCode: debugCode}, nil
}

func (s *service) Check(ctx context.Context, userID uuid.UUID, code string) (*CheckResultDTO, error) {
	record, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verification: load record")
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no verification in progress")
	}

	if record.Status == enums.VerificationStatusVerified {
		return &CheckResultDTO{
			Verified:          true,
			Attempts:          record.Attempts,
			AttemptsRemaining: s.remaining(record.Attempts),
		}, nil
	}

	// Locked-out users cannot submit, not even the right code. Only a new
	// Save resets the counter.
	if record.Attempts >= s.cfg.MaxAttempts {
		return nil, pkgerrors.New(pkgerrors.CodeLockout, "too many verification attempts").
			WithDetails(map[string]any{"maxAttempts": s.cfg.MaxAttempts})
	}

	now := nowUTC()
	record.Attempts++
	record.LastAttemptAt = &now

	matched := record.Code != nil && code != "" && *record.Code == code
	if matched {
		record.Status = enums.VerificationStatusVerified
		record.VerifiedAt = &now
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verification: persist record")
	}

	if !matched {
		lctx := s.logg.WithFields(ctx, map[string]any{"userId": userID.String(), "attempts": record.Attempts})
		s.logg.Warn(lctx, "verification code mismatch")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid verification code").
			WithDetails(map[string]any{"attemptsRemaining": s.remaining(record.Attempts)})
	}

	lctx := s.logg.WithField(ctx, "userId", userID.String())
	s.logg.Info(lctx, "verification succeeded")
	return &CheckResultDTO{
		Verified:          true,
		Attempts:          record.Attempts,
		AttemptsRemaining: s.remaining(record.Attempts),
	}, nil
}

func (s *service) Status(ctx context.Context, userID uuid.UUID) (*StatusDTO, error) {
	record, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verification: load record")
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no verification in progress")
	}
	status := recordToStatus(record)
	return &status, nil
}

func (s *service) remaining(attempts int) int {
	remaining := s.cfg.MaxAttempts - attempts
	if remaining < 0 {
		return 0
	}
	return remaining
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// generateCode draws a uniform 6-digit code from crypto/rand.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return (n.Add(n, big.NewInt(100000))).String(), nil
}
