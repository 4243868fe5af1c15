package listings

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/obinnaeze/renthaven-backend/pkg/db/models"
	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
	"github.com/obinnaeze/renthaven-backend/pkg/pagination"
)

// Service is thin CRUD over listings. Only the owner can mutate a listing.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateInput) (*ListingDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ListingDTO, error)
	List(ctx context.Context, filter ListFilter) ([]*ListingDTO, bool, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, input UpdateInput) (*ListingDTO, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type listingStore interface {
	Create(ctx context.Context, listing *models.Listing) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	List(ctx context.Context, filter ListFilter) ([]models.Listing, error)
	Update(ctx context.Context, listing *models.Listing) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo listingStore
	logg *logger.Logger
}

func NewService(repo listingStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "listings: repo is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "listings: logger is required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateInput) (*ListingDTO, error) {
	if input.Price.IsNegative() || input.Price.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "USD"
	}

	listing := &models.Listing{
		OwnerID:         ownerID,
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		Location:        strings.TrimSpace(input.Location),
		PriceMinorUnits: toMinorUnits(input.Price),
		Currency:        currency,
		Available:       true,
	}
	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listings: create")
	}

	lctx := s.logg.WithFields(ctx, map[string]any{"listingId": listing.ID.String(), "ownerId": ownerID.String()})
	s.logg.Info(lctx, "listing created")
	return listingToDTO(listing), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ListingDTO, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listings: load")
	}
	if listing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
	}
	return listingToDTO(listing), nil
}

// List returns one page plus a flag for whether more rows exist.
func (s *service) List(ctx context.Context, filter ListFilter) ([]*ListingDTO, bool, error) {
	limit := pagination.NormalizeLimit(filter.Limit)
	filter.Limit = pagination.LimitWithBuffer(limit)

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listings: list")
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	out := make([]*ListingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, listingToDTO(&rows[i]))
	}
	return out, hasMore, nil
}

func (s *service) Update(ctx context.Context, ownerID, id uuid.UUID, input UpdateInput) (*ListingDTO, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listings: load")
	}
	if listing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
	}
	if listing.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "listing belongs to another owner")
	}

	if input.Title != nil {
		listing.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.Location != nil {
		listing.Location = strings.TrimSpace(*input.Location)
	}
	if input.Price != nil {
		if input.Price.IsNegative() || input.Price.IsZero() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		listing.PriceMinorUnits = toMinorUnits(*input.Price)
	}
	if input.Available != nil {
		listing.Available = *input.Available
	}

	if err := s.repo.Update(ctx, listing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listings: update")
	}
	return listingToDTO(listing), nil
}

func (s *service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listings: load")
	}
	if listing == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
	}
	if listing.OwnerID != ownerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "listing belongs to another owner")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listings: delete")
	}
	return nil
}
