package payments

import (
	"context"

	"github.com/google/uuid"

	"github.com/obinnaeze/renthaven-backend/pkg/db/models"
	"github.com/obinnaeze/renthaven-backend/pkg/enums"
	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
	"github.com/obinnaeze/renthaven-backend/pkg/payments"
)

// gateway is the narrow surface of the payment provider the service needs.
type gateway interface {
	InitPayment(ctx context.Context, params payments.InitParams) (*payments.TransactionRecord, error)
	VerifyTransaction(ctx context.Context, paymentID string) (*payments.TransactionRecord, error)
}

type bookingStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
}

// Service charges bookings through the opaque gateway wrapper. The gateway
// is the source of truth for payment state; this service only records the
// booking-side consequence.
type Service interface {
	// PayForBooking charges the booking total. A completed charge confirms
	// the booking in the same call.
	PayForBooking(ctx context.Context, renterID, bookingID uuid.UUID, sourceID string) (*payments.TransactionRecord, error)
	// Verify resolves a gateway payment id. Unknown ids are a not-found
	// error, not an empty record.
	Verify(ctx context.Context, paymentID string) (*payments.TransactionRecord, error)
}

type service struct {
	gateway  gateway
	bookings bookingStore
	logg     *logger.Logger
}

func NewService(gw gateway, bookings bookingStore, logg *logger.Logger) (Service, error) {
	if gw == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments: gateway is required")
	}
	if bookings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments: booking store is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments: logger is required")
	}
	return &service{gateway: gw, bookings: bookings, logg: logg}, nil
}

func (s *service) PayForBooking(ctx context.Context, renterID, bookingID uuid.UUID, sourceID string) (*payments.TransactionRecord, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "payments: load booking")
	}
	if booking == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
	}
	if booking.RenterID != renterID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "booking belongs to another renter")
	}
	if booking.Status != enums.BookingStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "booking is not awaiting payment")
	}

	record, err := s.gateway.InitPayment(ctx, payments.InitParams{
		AmountMinorUnits: booking.TotalMinorUnits,
		Currency:         booking.Currency,
		SourceID:         sourceID,
		Reference:        booking.ID.String(),
		Note:             "renthaven booking",
	})
	if err != nil {
		return nil, err
	}

	if record.Status == "COMPLETED" {
		booking.Status = enums.BookingStatusConfirmed
		if err := s.bookings.Update(ctx, booking); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "payments: confirm booking")
		}
	}

	lctx := s.logg.WithFields(ctx, map[string]any{
		"bookingId": booking.ID.String(),
		"paymentId": record.ID,
		"status":    record.Status,
	})
	s.logg.Info(lctx, "payment initiated")
	return record, nil
}

func (s *service) Verify(ctx context.Context, paymentID string) (*payments.TransactionRecord, error) {
	record, err := s.gateway.VerifyTransaction(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
	}
	return record, nil
}
