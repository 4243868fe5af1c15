package payments

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/obinnaeze/renthaven-backend/internal/bookings"
	"github.com/obinnaeze/renthaven-backend/pkg/db/models"
	"github.com/obinnaeze/renthaven-backend/pkg/enums"
	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
	"github.com/obinnaeze/renthaven-backend/pkg/payments"
)

type fakeGateway struct {
	status string
	calls  []payments.InitParams
	known  map[string]*payments.TransactionRecord
}

func (f *fakeGateway) InitPayment(_ context.Context, params payments.InitParams) (*payments.TransactionRecord, error) {
	f.calls = append(f.calls, params)
	return &payments.TransactionRecord{
		ID:        "pay_" + uuid.NewString(),
		Reference: params.Reference,
		Status:    f.status,
		Amount:    decimal.New(params.AmountMinorUnits, -2),
		Currency:  params.Currency,
	}, nil
}

func (f *fakeGateway) VerifyTransaction(_ context.Context, paymentID string) (*payments.TransactionRecord, error) {
	return f.known[paymentID], nil
}

func newTestService(t *testing.T, gw gateway) (Service, *bookings.Repository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Booking{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repo := bookings.NewRepository(db)
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(gw, repo, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func seedBooking(t *testing.T, repo *bookings.Repository, renterID uuid.UUID, status enums.BookingStatus) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		ListingID:       uuid.New(),
		RenterID:        renterID,
		StartDate:       time.Now(),
		EndDate:         time.Now().AddDate(0, 0, 2),
		Status:          status,
		TotalMinorUnits: 20000,
		Currency:        "USD",
	}
	if err := repo.Create(context.Background(), booking); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return booking
}

func TestPayForBookingConfirms(t *testing.T) {
	gw := &fakeGateway{status: "COMPLETED"}
	svc, repo := newTestService(t, gw)
	ctx := context.Background()
	renterID := uuid.New()
	booking := seedBooking(t, repo, renterID, enums.BookingStatusPending)

	record, err := svc.PayForBooking(ctx, renterID, booking.ID, "cnon:card-nonce")
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if record.Reference != booking.ID.String() {
		t.Fatalf("reference = %q, want booking id", record.Reference)
	}
	if len(gw.calls) != 1 || gw.calls[0].AmountMinorUnits != 20000 {
		t.Fatalf("gateway saw %+v", gw.calls)
	}

	stored, err := repo.FindByID(ctx, booking.ID)
	if err != nil {
		t.Fatalf("reload booking: %v", err)
	}
	if stored.Status != enums.BookingStatusConfirmed {
		t.Fatalf("status = %s, want confirmed", stored.Status)
	}
}

func TestPayForBookingPendingGatewayLeavesBooking(t *testing.T) {
	gw := &fakeGateway{status: "PENDING"}
	svc, repo := newTestService(t, gw)
	ctx := context.Background()
	renterID := uuid.New()
	booking := seedBooking(t, repo, renterID, enums.BookingStatusPending)

	if _, err := svc.PayForBooking(ctx, renterID, booking.ID, "cnon:card-nonce"); err != nil {
		t.Fatalf("pay: %v", err)
	}

	stored, _ := repo.FindByID(ctx, booking.ID)
	if stored.Status != enums.BookingStatusPending {
		t.Fatalf("status = %s, want still pending", stored.Status)
	}
}

func TestPayForBookingGuards(t *testing.T) {
	gw := &fakeGateway{status: "COMPLETED"}
	svc, repo := newTestService(t, gw)
	ctx := context.Background()
	renterID := uuid.New()

	_, err := svc.PayForBooking(ctx, renterID, uuid.New(), "cnon:x")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	booking := seedBooking(t, repo, renterID, enums.BookingStatusPending)
	_, err = svc.PayForBooking(ctx, uuid.New(), booking.ID, "cnon:x")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	confirmed := seedBooking(t, repo, renterID, enums.BookingStatusConfirmed)
	_, err = svc.PayForBooking(ctx, renterID, confirmed.ID, "cnon:x")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestVerify(t *testing.T) {
	known := &payments.TransactionRecord{ID: "pay_1", Status: "COMPLETED"}
	gw := &fakeGateway{known: map[string]*payments.TransactionRecord{"pay_1": known}}
	svc, _ := newTestService(t, gw)
	ctx := context.Background()

	record, err := svc.Verify(ctx, "pay_1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if record.ID != "pay_1" {
		t.Fatalf("record = %+v", record)
	}

	_, err = svc.Verify(ctx, "pay_missing")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
