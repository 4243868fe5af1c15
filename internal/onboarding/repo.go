package onboarding

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/obinnaeze/renthaven-backend/pkg/db/models"
)

// Repository persists onboarding records. One row per user.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByUser returns the user's record, or (nil, nil) when none exists yet.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.OnboardingRecord, error) {
	var record models.OnboardingRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Upsert creates the record on first save and updates it afterwards.
func (r *Repository) Upsert(ctx context.Context, record *models.OnboardingRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
		return r.db.WithContext(ctx).Create(record).Error
	}
	return r.db.WithContext(ctx).Save(record).Error
}
