package bookings

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/obinnaeze/renthaven-backend/internal/listings"
	"github.com/obinnaeze/renthaven-backend/pkg/config"
	"github.com/obinnaeze/renthaven-backend/pkg/db/models"
	"github.com/obinnaeze/renthaven-backend/pkg/enums"
	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
)

func newTestDeps(t *testing.T) (*Repository, *listings.Repository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Listing{}, &models.Booking{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepository(db), listings.NewRepository(db), db
}

func newTestService(t *testing.T, devMode bool) (Service, *listings.Repository) {
	t.Helper()
	repo, listingRepo, _ := newTestDeps(t)
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(repo, listingRepo, config.BookingsConfig{ReadTimeout: 5 * time.Second}, devMode, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, listingRepo
}

func seedListing(t *testing.T, repo *listings.Repository, available bool) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		OwnerID:         uuid.New(),
		Title:           "Flat",
		Location:        "Ikoyi",
		PriceMinorUnits: 10000,
		Currency:        "USD",
		Available:       available,
	}
	if err := repo.Create(context.Background(), listing); err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	return listing
}

func TestCreateComputesTotal(t *testing.T) {
	svc, listingRepo := newTestService(t, false)
	ctx := context.Background()
	listing := seedListing(t, listingRepo, true)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	booking, err := svc.Create(ctx, uuid.New(), CreateInput{
		ListingID: listing.ID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 3),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if booking.Status != enums.BookingStatusPending {
		t.Fatalf("status = %s, want pending", booking.Status)
	}
	// 3 nights at 100.00
	if booking.Total.String() != "300" {
		t.Fatalf("total = %s, want 300", booking.Total)
	}
}

func TestCreateRejectsBadDatesAndUnavailable(t *testing.T) {
	svc, listingRepo := newTestService(t, false)
	ctx := context.Background()

	listing := seedListing(t, listingRepo, true)
	start := time.Now()
	_, err := svc.Create(ctx, uuid.New(), CreateInput{ListingID: listing.ID, StartDate: start, EndDate: start})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	unavailable := seedListing(t, listingRepo, false)
	_, err = svc.Create(ctx, uuid.New(), CreateInput{
		ListingID: unavailable.ID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 1),
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	_, err = svc.Create(ctx, uuid.New(), CreateInput{
		ListingID: uuid.New(),
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 1),
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListForRenter(t *testing.T) {
	svc, listingRepo := newTestService(t, false)
	ctx := context.Background()
	listing := seedListing(t, listingRepo, true)
	renterID := uuid.New()

	start := time.Now()
	if _, err := svc.Create(ctx, renterID, CreateInput{
		ListingID: listing.ID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 2),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	mine, err := svc.ListForRenter(ctx, renterID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("rows = %d, want 1", len(mine))
	}

	other, err := svc.ListForRenter(ctx, uuid.New())
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("other renter sees %d bookings", len(other))
	}
}

type timingOutStore struct {
	bookingStore
}

func (timingOutStore) ListByRenter(ctx context.Context, _ uuid.UUID) ([]models.Booking, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func newTimeoutService(t *testing.T, devMode bool) Service {
	t.Helper()
	_, listingRepo, _ := newTestDeps(t)
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(timingOutStore{}, listingRepo, config.BookingsConfig{ReadTimeout: 10 * time.Millisecond}, devMode, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestListTimeoutDegradesToEmptyInProd(t *testing.T) {
	svc := newTimeoutService(t, false)

	rows, err := svc.ListForRenter(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("expected degraded empty result, got %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("rows = %v, want empty non-nil slice", rows)
	}
}

func TestListTimeoutSurfacesInDev(t *testing.T) {
	svc := newTimeoutService(t, true)

	_, err := svc.ListForRenter(context.Background(), uuid.New())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeUpstreamTimeout {
		t.Fatalf("expected upstream timeout, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	svc, listingRepo := newTestService(t, false)
	ctx := context.Background()
	listing := seedListing(t, listingRepo, true)
	renterID := uuid.New()

	start := time.Now()
	booking, err := svc.Create(ctx, renterID, CreateInput{
		ListingID: listing.ID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 1),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Cancel(ctx, uuid.New(), booking.ID); pkgerrors.CodeOf(err) != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	cancelled, err := svc.Cancel(ctx, renterID, booking.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != enums.BookingStatusCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.Status)
	}

	// Cancelling twice is a no-op.
	again, err := svc.Cancel(ctx, renterID, booking.ID)
	if err != nil || again.Status != enums.BookingStatusCancelled {
		t.Fatalf("second cancel: %+v err=%v", again, err)
	}
}
