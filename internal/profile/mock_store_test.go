package profile_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mercadogo/backend/internal/models"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetProfile(_ context.Context, id string) (*models.Profile, error) {
	args := m.Called(id)
	p, _ := args.Get(0).(*models.Profile)
	return p, args.Error(1)
}

func (m *MockStore) GetProfileByUsername(_ context.Context, username string) (*models.Profile, error) {
	args := m.Called(username)
	p, _ := args.Get(0).(*models.Profile)
	return p, args.Error(1)
}

func (m *MockStore) CreateProfile(_ context.Context, p *models.Profile) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockStore) UpdateProfile(_ context.Context, id string, fields map[string]any) (*models.Profile, error) {
	args := m.Called(id, fields)
	p, _ := args.Get(0).(*models.Profile)
	return p, args.Error(1)
}
