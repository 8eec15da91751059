package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mercadogo/backend/internal/models"
)

// GetProfile loads a profile by identity. Returns (nil, nil) when absent.
func (s *Service) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	err := s.db(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProfileByUsername loads a profile by display name. Returns (nil, nil)
// when absent.
func (s *Service) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var p models.Profile
	err := s.db(ctx).Where("username = ?", username).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProfile inserts a bare profile row. ErrDuplicate when the identity
// already has one (the concurrent first-access race).
func (s *Service) CreateProfile(ctx context.Context, p *models.Profile) error {
	return translate(s.db(ctx).Create(p).Error)
}

// UpdateProfile applies fields to the identity's row and returns the fresh
// record. ErrDuplicate surfaces a username uniqueness violation.
func (s *Service) UpdateProfile(ctx context.Context, id string, fields map[string]any) (*models.Profile, error) {
	err := s.db(ctx).Model(&models.Profile{}).Where("id = ?", id).Updates(fields).Error
	if err != nil {
		return nil, translate(err)
	}
	return s.GetProfile(ctx, id)
}
