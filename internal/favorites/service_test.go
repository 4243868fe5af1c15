package favorites

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/obinnaeze/renthaven-backend/internal/listings"
	"github.com/obinnaeze/renthaven-backend/pkg/db/models"
	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
)

func newTestService(t *testing.T) (Service, *listings.Repository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Listing{}, &models.Favorite{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	listingRepo := listings.NewRepository(db)
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(db, listingRepo, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, listingRepo
}

func seedListing(t *testing.T, repo *listings.Repository) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		OwnerID:         uuid.New(),
		Title:           "Loft",
		Location:        "Gbagada",
		PriceMinorUnits: 5000,
		Currency:        "USD",
		Available:       true,
	}
	if err := repo.Create(context.Background(), listing); err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	return listing
}

func TestAddIsIdempotent(t *testing.T) {
	svc, listingRepo := newTestService(t)
	ctx := context.Background()
	listing := seedListing(t, listingRepo)
	userID := uuid.New()

	first, err := svc.Add(ctx, userID, listing.ID)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	second, err := svc.Add(ctx, userID, listing.ID)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if first.ID != second.ID {
		t.Fatal("second add created a new row")
	}

	rows, err := svc.ListForUser(ctx, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
}

func TestAddUnknownListing(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Add(context.Background(), uuid.New(), uuid.New())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	svc, listingRepo := newTestService(t)
	ctx := context.Background()
	listing := seedListing(t, listingRepo)
	userID := uuid.New()

	if _, err := svc.Add(ctx, userID, listing.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Remove(ctx, userID, listing.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.Remove(ctx, userID, listing.ID); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second remove, got %v", err)
	}
}

func TestListIsScopedPerUser(t *testing.T) {
	svc, listingRepo := newTestService(t)
	ctx := context.Background()
	listing := seedListing(t, listingRepo)

	if _, err := svc.Add(ctx, uuid.New(), listing.ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	rows, err := svc.ListForUser(ctx, uuid.New())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(rows))
	}
}
