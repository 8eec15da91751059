// Package listing implements the classified-ad catalog.
package listing

import (
	"context"
	"math"
	"regexp"
	"strings"

	"mercadogo/backend/internal/models"
	"mercadogo/backend/internal/storage"
	"mercadogo/backend/pkg/errors"
	"mercadogo/backend/pkg/logger"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
	MaxPrice     = 1e9
)

var imageURLRe = regexp.MustCompile(`(?i)^https?://`)

type Store interface {
	CreateListing(ctx context.Context, l *models.Listing) error
	GetListing(ctx context.Context, id int64) (*models.Listing, error)
	ListListings(ctx context.Context, f storage.ListingFilter) ([]models.Listing, error)
}

type Profiles interface {
	Ensure(ctx context.Context, identity string) (*models.Profile, error)
}

type Service struct {
	store    Store
	profiles Profiles
	log      logger.Logger
}

func NewService(store Store, profiles Profiles, log logger.Logger) *Service {
	return &Service{store: store, profiles: profiles, log: log.Named("listing")}
}

// CreateInput carries the raw fields of a create-listing request. ImageURL
// and nothing else may be absent; RegionCode must name one of the sixteen
// region codes.
type CreateInput struct {
	Title       string
	Address     string
	Price       float64
	Description string
	ImageURL    *string
	RegionCode  string
}

// Create validates and inserts a listing owned by identity. The owner's
// current display name is snapshotted onto the row. All validation happens
// before the write.
func (s *Service) Create(ctx context.Context, identity string, in CreateInput) (*models.Listing, error) {
	p, err := s.profiles.Ensure(ctx, identity)
	if err != nil {
		return nil, err
	}
	if p.Username == nil {
		return nil, errors.ErrUsernameNotSet
	}

	title := strings.TrimSpace(in.Title)
	address := strings.TrimSpace(in.Address)
	description := strings.TrimSpace(in.Description)

	if n := len([]rune(title)); n < 3 || n > 120 {
		return nil, errors.InvalidArg("Title must be 3-120 chars")
	}
	if n := len([]rune(address)); n < 3 || n > 200 {
		return nil, errors.InvalidArg("Address must be 3-200 chars")
	}
	if math.IsNaN(in.Price) || math.IsInf(in.Price, 0) || in.Price < 0 || in.Price > MaxPrice {
		return nil, errors.InvalidArg("Price must be a non-negative number")
	}
	if n := len([]rune(description)); n < 3 || n > 2000 {
		return nil, errors.InvalidArg("Description must be 3-2000 chars")
	}
	if !models.ValidRegion(in.RegionCode) {
		return nil, errors.InvalidArg("Invalid region_code")
	}

	var imageURL *string
	if in.ImageURL != nil {
		u := strings.TrimSpace(*in.ImageURL)
		if len(u) > 1000 {
			return nil, errors.InvalidArg("image_url too long")
		}
		if !imageURLRe.MatchString(u) {
			return nil, errors.InvalidArg("image_url must be http(s)")
		}
		imageURL = &u
	}

	region := in.RegionCode
	l := &models.Listing{
		UserID:      identity,
		Username:    *p.Username,
		Title:       title,
		Address:     address,
		Price:       in.Price,
		Description: description,
		ImageURL:    imageURL,
		RegionCode:  &region,
	}
	if err := s.store.CreateListing(ctx, l); err != nil {
		s.log.Error("create listing", "err", err)
		return nil, errors.Wrap(errors.CodeInternal, "Server error", err)
	}
	return l, nil
}

// Get returns the full projection including address and description.
func (s *Service) Get(ctx context.Context, id int64) (*models.Listing, error) {
	l, err := s.store.GetListing(ctx, id)
	if err != nil {
		s.log.Error("get listing", "err", err, "id", id)
		return nil, errors.Wrap(errors.CodeInternal, "Server error", err)
	}
	if l == nil {
		return nil, errors.ErrListingNotFound
	}
	return l, nil
}

// ListMine returns the caller's listings as public summaries, newest first.
func (s *Service) ListMine(ctx context.Context, identity string, limit int) ([]models.ListingSummary, error) {
	return s.list(ctx, storage.ListingFilter{
		OwnerID: identity,
		Limit:   clampLimit(limit),
	})
}

// ListByUser returns another user's listings by display name.
func (s *Service) ListByUser(ctx context.Context, username string, limit int) ([]models.ListingSummary, error) {
	return s.list(ctx, storage.ListingFilter{
		Username: username,
		Limit:    clampLimit(limit),
	})
}

// ListAll returns the public catalog, optionally narrowed by region and a
// case-insensitive title substring. An unknown region code is ignored
// rather than rejected, matching the catalog's browse semantics.
func (s *Service) ListAll(ctx context.Context, regionCode, titleQuery string, limit int) ([]models.ListingSummary, error) {
	f := storage.ListingFilter{
		TitleQuery: strings.TrimSpace(titleQuery),
		Limit:      clampLimit(limit),
	}
	if models.ValidRegion(regionCode) {
		f.RegionCode = regionCode
	}
	return s.list(ctx, f)
}

func (s *Service) list(ctx context.Context, f storage.ListingFilter) ([]models.ListingSummary, error) {
	listings, err := s.store.ListListings(ctx, f)
	if err != nil {
		s.log.Error("list listings", "err", err)
		return nil, errors.Wrap(errors.CodeInternal, "Server error", err)
	}
	summaries := make([]models.ListingSummary, 0, len(listings))
	for i := range listings {
		summaries = append(summaries, listings[i].Summary())
	}
	return summaries, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
