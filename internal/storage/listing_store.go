package storage

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"mercadogo/backend/internal/models"
)

// ListingFilter narrows ListListings. Zero values mean "no filter".
type ListingFilter struct {
	OwnerID    string
	Username   string
	RegionCode string
	// TitleQuery is a case-insensitive substring match on title.
	TitleQuery string
	Limit      int
}

// CreateListing inserts a new listing; the id is filled in by the database.
func (s *Service) CreateListing(ctx context.Context, l *models.Listing) error {
	return s.db(ctx).Create(l).Error
}

// GetListing loads one listing by id. Returns (nil, nil) when absent.
func (s *Service) GetListing(ctx context.Context, id int64) (*models.Listing, error) {
	var l models.Listing
	err := s.db(ctx).Where("id = ?", id).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListListings returns listings matching f, newest first.
func (s *Service) ListListings(ctx context.Context, f ListingFilter) ([]models.Listing, error) {
	q := s.db(ctx).Model(&models.Listing{}).Order("id desc").Limit(f.Limit)
	if f.OwnerID != "" {
		q = q.Where("user_id = ?", f.OwnerID)
	}
	if f.Username != "" {
		q = q.Where("username = ?", f.Username)
	}
	if f.RegionCode != "" {
		q = q.Where("region_code = ?", f.RegionCode)
	}
	if f.TitleQuery != "" {
		q = q.Where("title ILIKE ?", "%"+escapeLike(f.TitleQuery)+"%")
	}
	var listings []models.Listing
	if err := q.Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// escapeLike neutralizes LIKE metacharacters in user input.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
