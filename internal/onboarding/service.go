package onboarding

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/obinnaeze/renthaven-backend/pkg/db/models"
	"github.com/obinnaeze/renthaven-backend/pkg/enums"
	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
)

// Field names reported back to clients when a step or the final submit is
// missing data. These match the JSON keys of StepData.
const (
	FieldUserType           = "userType"
	FieldInterests          = "interests"
	FieldLocation           = "location"
	FieldPhone              = "phone"
	FieldVerificationMethod = "verificationMethod"
	FieldAgreedToTerms      = "agreedToTerms"
)

// Service is the onboarding wizard state machine.
type Service interface {
	// Get returns the user's record. Not having started is a not-found error.
	Get(ctx context.Context, userID uuid.UUID) (*RecordDTO, error)
	// Save merges a partial update into the record, creating it on first
	// touch. When step is in [1, TotalSteps] the step's required fields are
	// validated against the merged view before anything is persisted.
	Save(ctx context.Context, userID uuid.UUID, data StepData, step int) (*RecordDTO, error)
	// Complete merges any final fields, then validates every step at once.
	// On failure no write happens and the error details carry the full list
	// of missing fields.
	Complete(ctx context.Context, userID uuid.UUID, data StepData) (*RecordDTO, error)
	// Progress derives the completion summary from the stored record.
	Progress(ctx context.Context, userID uuid.UUID) (*ProgressDTO, error)
}

type recordStore interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.OnboardingRecord, error)
	Upsert(ctx context.Context, record *models.OnboardingRecord) error
}

type service struct {
	repo recordStore
	logg *logger.Logger
}

func NewService(repo recordStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "onboarding: repo is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "onboarding: logger is required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*RecordDTO, error) {
	record, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "onboarding: load record")
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "onboarding not started")
	}
	return recordToDTO(record), nil
}

func (s *service) Save(ctx context.Context, userID uuid.UUID, data StepData, step int) (*RecordDTO, error) {
	if step < 0 || step > TotalSteps {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "step must be between 1 and 5")
	}

	record, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "onboarding: load record")
	}
	if record == nil {
		record = &models.OnboardingRecord{UserID: userID, Step: 1}
	}

	merged := *record
	applyStepData(&merged, data)

	if step > 0 {
		if missing := missingForStep(&merged, step); len(missing) > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "incomplete step data").
				WithDetails(map[string]any{"step": step, "missingFields": missing})
		}
		if step > merged.Step {
			merged.Step = step
		}
	}

	if err := s.repo.Upsert(ctx, &merged); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "onboarding: persist record")
	}

	lctx := s.logg.WithFields(ctx, map[string]any{"userId": userID.String(), "step": merged.Step})
	s.logg.Debug(lctx, "onboarding record saved")
	return recordToDTO(&merged), nil
}

func (s *service) Complete(ctx context.Context, userID uuid.UUID, data StepData) (*RecordDTO, error) {
	record, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "onboarding: load record")
	}
	if record == nil {
		record = &models.OnboardingRecord{UserID: userID, Step: 1}
	}

	merged := *record
	applyStepData(&merged, data)

	if missing := missingFields(&merged); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "onboarding is incomplete").
			WithDetails(map[string]any{"missingFields": missing})
	}

	now := nowUTC()
	merged.Step = TotalSteps
	merged.CompletedAt = &now

	if err := s.repo.Upsert(ctx, &merged); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "onboarding: persist record")
	}

	lctx := s.logg.WithFields(ctx, map[string]any{"userId": userID.String(), "userType": merged.UserType})
	s.logg.Info(lctx, "onboarding completed")
	return recordToDTO(&merged), nil
}

func (s *service) Progress(ctx context.Context, userID uuid.UUID) (*ProgressDTO, error) {
	record, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "onboarding: load record")
	}
	if record == nil {
		return &ProgressDTO{Completed: false, CurrentStep: 1, TotalSteps: TotalSteps, Progress: 0}, nil
	}

	done := 0
	current := 0
	for step := 1; step <= TotalSteps; step++ {
		if len(missingForStep(record, step)) == 0 {
			done++
		} else if current == 0 {
			current = step
		}
	}
	if current == 0 {
		current = TotalSteps
	}
	return &ProgressDTO{
		Completed:   record.CompletedAt != nil,
		CurrentStep: current,
		TotalSteps:  TotalSteps,
		Progress:    done * 100 / TotalSteps,
	}, nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// applyStepData overlays the non-nil fields of data onto record. Slices are
// replaced wholesale when present, never appended.
func applyStepData(record *models.OnboardingRecord, data StepData) {
	if data.UserType != nil {
		record.UserType = *data.UserType
	}
	if data.Interests != nil {
		record.Interests = data.Interests
	}
	if data.Location != nil {
		record.Location = *data.Location
	}
	if data.Phone != nil {
		record.Phone = *data.Phone
	}
	if data.VerificationMethod != nil {
		record.VerificationMethod = *data.VerificationMethod
	}
	if data.AgreedToTerms != nil {
		record.AgreedToTerms = *data.AgreedToTerms
	}
}

// missingForStep reports the field names a single step still needs.
func missingForStep(record *models.OnboardingRecord, step int) []string {
	var missing []string
	switch step {
	case 1:
		if !enums.ParseAccountType(record.UserType).IsSet() {
			missing = append(missing, FieldUserType)
		}
	case 2:
		if len(record.Interests) == 0 {
			missing = append(missing, FieldInterests)
		}
	case 3:
		if record.Location == "" {
			missing = append(missing, FieldLocation)
		}
		if record.Phone == "" {
			missing = append(missing, FieldPhone)
		}
	case 4:
		if !enums.VerificationMethod(record.VerificationMethod).IsValid() {
			missing = append(missing, FieldVerificationMethod)
		}
	case 5:
		if !record.AgreedToTerms {
			missing = append(missing, FieldAgreedToTerms)
		}
	}
	return missing
}

// missingFields is the union of every step's requirements, in step order.
func missingFields(record *models.OnboardingRecord) []string {
	var missing []string
	for step := 1; step <= TotalSteps; step++ {
		missing = append(missing, missingForStep(record, step)...)
	}
	return missing
}
