package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/obinnaeze/renthaven-backend/pkg/enums"
)

// VerificationRecord tracks the bounded-retry challenge for one user.
// Code is null for the id method, which goes through manual review.
type VerificationRecord struct {
	ID            uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	UserID        uuid.UUID                `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Method        enums.VerificationMethod `gorm:"column:method;not null"`
	Code          *string                  `gorm:"column:code"`
	Status        enums.VerificationStatus `gorm:"column:status;not null;default:'pending'"`
	Attempts      int                      `gorm:"column:attempts;not null;default:0"`
	LastAttemptAt *time.Time               `gorm:"column:last_attempt_at"`
	VerifiedAt    *time.Time               `gorm:"column:verified_at"`
	CreatedAt     time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
