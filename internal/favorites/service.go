package favorites

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/obinnaeze/renthaven-backend/pkg/db/models"
	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
)

type FavoriteDTO struct {
	ID        uuid.UUID `json:"id"`
	ListingID uuid.UUID `json:"listingId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service tracks saved listings. Add is idempotent so a double-tap on the
// heart icon never errors.
type Service interface {
	Add(ctx context.Context, userID, listingID uuid.UUID) (*FavoriteDTO, error)
	Remove(ctx context.Context, userID, listingID uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*FavoriteDTO, error)
}

type listingReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
}

type service struct {
	db       *gorm.DB
	listings listingReader
	logg     *logger.Logger
}

func NewService(db *gorm.DB, listings listingReader, logg *logger.Logger) (Service, error) {
	if db == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "favorites: db is required")
	}
	if listings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "favorites: listing reader is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "favorites: logger is required")
	}
	return &service{db: db, listings: listings, logg: logg}, nil
}

func (s *service) Add(ctx context.Context, userID, listingID uuid.UUID) (*FavoriteDTO, error) {
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "favorites: load listing")
	}
	if listing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
	}

	var existing models.Favorite
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		First(&existing).Error
	if err == nil {
		return favoriteToDTO(&existing), nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "favorites: lookup")
	}

	favorite := models.Favorite{ID: uuid.New(), UserID: userID, ListingID: listingID}
	if err := s.db.WithContext(ctx).Create(&favorite).Error; err != nil {
		// A concurrent Add can race past the lookup; the unique index wins
		// and we fall back to reading the winner's row.
		if isUniqueViolation(err) {
			if findErr := s.db.WithContext(ctx).
				Where("user_id = ? AND listing_id = ?", userID, listingID).
				First(&existing).Error; findErr == nil {
				return favoriteToDTO(&existing), nil
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "favorites: create")
	}
	return favoriteToDTO(&favorite), nil
}

func (s *service) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, result.Error, "favorites: delete")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "favorite not found")
	}
	return nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*FavoriteDTO, error) {
	var rows []models.Favorite
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "favorites: list")
	}

	out := make([]*FavoriteDTO, 0, len(rows))
	for i := range rows {
		out = append(out, favoriteToDTO(&rows[i]))
	}
	return out, nil
}

func favoriteToDTO(favorite *models.Favorite) *FavoriteDTO {
	return &FavoriteDTO{ID: favorite.ID, ListingID: favorite.ListingID, CreatedAt: favorite.CreatedAt}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
