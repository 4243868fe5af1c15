package verification

import (
	"time"

	"github.com/google/uuid"

	"github.com/obinnaeze/renthaven-backend/pkg/db/models"
	"github.com/obinnaeze/renthaven-backend/pkg/enums"
)

// StatusDTO is the client view of a verification record. The challenge code
// never leaves the server through this projection.
type StatusDTO struct {
	UserID        uuid.UUID                `json:"userId"`
	Method        enums.VerificationMethod `json:"method"`
	Status        enums.VerificationStatus `json:"status"`
	Attempts      int                      `json:"attempts"`
	LastAttemptAt *time.Time               `json:"lastAttemptAt,omitempty"`
	VerifiedAt    *time.Time               `json:"verifiedAt,omitempty"`
}

// StartResultDTO is returned from Save. DebugCode is populated only in the
// development environment so frontend work does not need a live SMS provider.
type StartResultDTO struct {
	StatusDTO
	DebugCode string `json:"debugCode,omitempty"`
}

// CheckResultDTO reports the outcome of a code submission.
type CheckResultDTO struct {
	Verified          bool `json:"verified"`
	Attempts          int  `json:"attempts"`
	AttemptsRemaining int  `json:"attemptsRemaining"`
}

func recordToStatus(record *models.VerificationRecord) StatusDTO {
	return StatusDTO{
		UserID:        record.UserID,
		Method:        record.Method,
		Status:        record.Status,
		Attempts:      record.Attempts,
		LastAttemptAt: record.LastAttemptAt,
		VerifiedAt:    record.VerifiedAt,
	}
}
