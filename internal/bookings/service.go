package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/obinnaeze/renthaven-backend/pkg/config"
	"github.com/obinnaeze/renthaven-backend/pkg/db/models"
	"github.com/obinnaeze/renthaven-backend/pkg/enums"
	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
)

// Service handles bookings. Reads are bounded by a timeout and prefer an
// empty answer over a failed page in production.
type Service interface {
	Create(ctx context.Context, renterID uuid.UUID, input CreateInput) (*BookingDTO, error)
	ListForRenter(ctx context.Context, renterID uuid.UUID) ([]*BookingDTO, error)
	Cancel(ctx context.Context, renterID, id uuid.UUID) (*BookingDTO, error)
}

type bookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListByRenter(ctx context.Context, renterID uuid.UUID) ([]models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
}

type listingReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
}

type service struct {
	repo     bookingStore
	listings listingReader
	cfg      config.BookingsConfig
	devMode  bool
	logg     *logger.Logger
}

func NewService(repo bookingStore, listings listingReader, cfg config.BookingsConfig, devMode bool, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "bookings: repo is required")
	}
	if listings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "bookings: listing reader is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "bookings: logger is required")
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 5 * time.Second
	}
	return &service{repo: repo, listings: listings, cfg: cfg, devMode: devMode, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, renterID uuid.UUID, input CreateInput) (*BookingDTO, error) {
	if !input.EndDate.After(input.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "endDate must be after startDate")
	}

	listing, err := s.listings.FindByID(ctx, input.ListingID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "bookings: load listing")
	}
	if listing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
	}
	if !listing.Available {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "listing is not available")
	}

	nights := int64(input.EndDate.Sub(input.StartDate).Hours() / 24)
	if nights < 1 {
		nights = 1
	}

	booking := &models.Booking{
		ListingID:       listing.ID,
		RenterID:        renterID,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Status:          enums.BookingStatusPending,
		TotalMinorUnits: nights * listing.PriceMinorUnits,
		Currency:        listing.Currency,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "bookings: create")
	}

	lctx := s.logg.WithFields(ctx, map[string]any{"bookingId": booking.ID.String(), "listingId": listing.ID.String()})
	s.logg.Info(lctx, "booking created")
	return bookingToDTO(booking), nil
}

func (s *service) ListForRenter(ctx context.Context, renterID uuid.UUID) ([]*BookingDTO, error) {
	readCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	rows, err := s.repo.ListByRenter(readCtx, renterID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(readCtx.Err(), context.DeadlineExceeded) {
			// Deliberate degradation: in production a slow read returns an
			// empty page, NOT zero bookings. Dev surfaces the timeout so it
			// cannot hide.
			if s.devMode {
				return nil, pkgerrors.Wrap(pkgerrors.CodeUpstreamTimeout, err, "bookings: read timed out")
			}
			lctx := s.logg.WithUserID(ctx, renterID.String())
			s.logg.Warn(lctx, "bookings read timed out, returning empty list")
			return []*BookingDTO{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "bookings: list")
	}

	out := make([]*BookingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, bookingToDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Cancel(ctx context.Context, renterID, id uuid.UUID) (*BookingDTO, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "bookings: load")
	}
	if booking == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
	}
	if booking.RenterID != renterID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "booking belongs to another renter")
	}
	if booking.Status == enums.BookingStatusCancelled {
		return bookingToDTO(booking), nil
	}

	booking.Status = enums.BookingStatusCancelled
	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "bookings: update")
	}
	return bookingToDTO(booking), nil
}
