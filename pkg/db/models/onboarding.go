package models

import (
	"time"

	"github.com/google/uuid"
)

// OnboardingRecord accumulates the five-step wizard data for one user.
// Saves are partial merges, so every wizard field is nullable until
// completion stamps completed_at.
type OnboardingRecord struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID             uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Step               int        `gorm:"column:step;not null;default:1"`
	UserType           string     `gorm:"column:user_type"`
	Interests          []string   `gorm:"column:interests;serializer:json"`
	Location           string     `gorm:"column:location"`
	Phone              string     `gorm:"column:phone"`
	VerificationMethod string     `gorm:"column:verification_method"`
	AgreedToTerms      bool       `gorm:"column:agreed_to_terms;not null;default:false"`
	CompletedAt        *time.Time `gorm:"column:completed_at"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
