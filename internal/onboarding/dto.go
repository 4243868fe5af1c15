package onboarding

import (
	"time"

	"github.com/google/uuid"

	"github.com/obinnaeze/renthaven-backend/pkg/db/models"
)

// TotalSteps is the length of the onboarding wizard.
const TotalSteps = 5

// StepData carries a partial save. Pointer fields distinguish "absent"
// from "explicitly empty" so merges never clobber earlier answers.
type StepData struct {
	UserType           *string  `json:"userType,omitempty"`
	Interests          []string `json:"interests,omitempty"`
	Location           *string  `json:"location,omitempty"`
	Phone              *string  `json:"phone,omitempty"`
	VerificationMethod *string  `json:"verificationMethod,omitempty"`
	AgreedToTerms      *bool    `json:"agreedToTerms,omitempty"`
}

// RecordDTO is the API view of an onboarding record.
type RecordDTO struct {
	UserID             uuid.UUID  `json:"userId"`
	Step               int        `json:"step"`
	UserType           string     `json:"userType,omitempty"`
	Interests          []string   `json:"interests,omitempty"`
	Location           string     `json:"location,omitempty"`
	Phone              string     `json:"phone,omitempty"`
	VerificationMethod string     `json:"verificationMethod,omitempty"`
	AgreedToTerms      bool       `json:"agreedToTerms"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
}

// ProgressDTO is the derived completion summary. It is recomputed from the
// stored record on every call so it can never drift from the raw data.
type ProgressDTO struct {
	Completed   bool `json:"completed"`
	CurrentStep int  `json:"currentStep"`
	TotalSteps  int  `json:"totalSteps"`
	Progress    int  `json:"progress"`
}

func recordToDTO(record *models.OnboardingRecord) *RecordDTO {
	if record == nil {
		return nil
	}
	return &RecordDTO{
		UserID:             record.UserID,
		Step:               record.Step,
		UserType:           record.UserType,
		Interests:          record.Interests,
		Location:           record.Location,
		Phone:              record.Phone,
		VerificationMethod: record.VerificationMethod,
		AgreedToTerms:      record.AgreedToTerms,
		CompletedAt:        record.CompletedAt,
	}
}
