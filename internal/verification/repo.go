package verification

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/obinnaeze/renthaven-backend/pkg/db/models"
)

// Repository persists verification records. One row per user; restarting a
// verification overwrites the row rather than appending history.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByUser returns the user's record, or (nil, nil) when none exists.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.VerificationRecord, error) {
	var record models.VerificationRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *Repository) Upsert(ctx context.Context, record *models.VerificationRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
		return r.db.WithContext(ctx).Create(record).Error
	}
	return r.db.WithContext(ctx).Save(record).Error
}
