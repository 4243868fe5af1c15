package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/obinnaeze/renthaven-backend/pkg/db/models"
	"github.com/obinnaeze/renthaven-backend/pkg/enums"
)

type CreateInput struct {
	ListingID uuid.UUID `json:"listingId" validate:"required"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
}

type BookingDTO struct {
	ID        uuid.UUID           `json:"id"`
	ListingID uuid.UUID           `json:"listingId"`
	RenterID  uuid.UUID           `json:"renterId"`
	StartDate time.Time           `json:"startDate"`
	EndDate   time.Time           `json:"endDate"`
	Status    enums.BookingStatus `json:"status"`
	Total     decimal.Decimal     `json:"total"`
	Currency  string              `json:"currency"`
	CreatedAt time.Time           `json:"createdAt"`
}

func bookingToDTO(booking *models.Booking) *BookingDTO {
	return &BookingDTO{
		ID:        booking.ID,
		ListingID: booking.ListingID,
		RenterID:  booking.RenterID,
		StartDate: booking.StartDate,
		EndDate:   booking.EndDate,
		Status:    booking.Status,
		Total:     decimal.New(booking.TotalMinorUnits, -2),
		Currency:  booking.Currency,
		CreatedAt: booking.CreatedAt,
	}
}
