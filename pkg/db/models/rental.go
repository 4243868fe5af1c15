package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/obinnaeze/renthaven-backend/pkg/enums"
)

// Listing is a rentable property published by an owner.
type Listing struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID         uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index"`
	Title           string    `gorm:"column:title;not null"`
	Description     string    `gorm:"column:description"`
	Location        string    `gorm:"column:location;not null"`
	PriceMinorUnits int64     `gorm:"column:price_minor_units;not null"`
	Currency        string    `gorm:"column:currency;not null;default:'USD'"`
	Available       bool      `gorm:"column:available;not null;default:true"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Booking reserves a listing for a renter over a date range.
type Booking struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ListingID       uuid.UUID           `gorm:"column:listing_id;type:uuid;not null;index"`
	RenterID        uuid.UUID           `gorm:"column:renter_id;type:uuid;not null;index"`
	StartDate       time.Time           `gorm:"column:start_date;not null"`
	EndDate         time.Time           `gorm:"column:end_date;not null"`
	Status          enums.BookingStatus `gorm:"column:status;not null;default:'pending'"`
	TotalMinorUnits int64               `gorm:"column:total_minor_units;not null"`
	Currency        string              `gorm:"column:currency;not null;default:'USD'"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// Favorite marks a listing a user wants to come back to.
type Favorite struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_favorites_user_listing"`
	ListingID uuid.UUID `gorm:"column:listing_id;type:uuid;not null;uniqueIndex:idx_favorites_user_listing"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// SupportMessage persists a message a user sent through the support widget.
type SupportMessage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Body      string    `gorm:"column:body;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
