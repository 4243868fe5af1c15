package listings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/obinnaeze/renthaven-backend/pkg/db/models"
)

type CreateInput struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	Location    string          `json:"location" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Currency    string          `json:"currency"`
}

type UpdateInput struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Location    *string          `json:"location,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Available   *bool            `json:"available,omitempty"`
}

type ListFilter struct {
	Location      string
	OwnerID       uuid.UUID
	OnlyAvailable bool
	Limit         int
	Offset        int
}

// ListingDTO carries prices as decimals; minor units stay a storage detail.
type ListingDTO struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"ownerId"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Location    string          `json:"location"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func listingToDTO(listing *models.Listing) *ListingDTO {
	return &ListingDTO{
		ID:          listing.ID,
		OwnerID:     listing.OwnerID,
		Title:       listing.Title,
		Description: listing.Description,
		Location:    listing.Location,
		Price:       decimal.New(listing.PriceMinorUnits, -2),
		Currency:    listing.Currency,
		Available:   listing.Available,
		CreatedAt:   listing.CreatedAt,
	}
}

func toMinorUnits(price decimal.Decimal) int64 {
	return price.Shift(2).IntPart()
}
