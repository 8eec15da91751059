package dm_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mercadogo/backend/internal/models"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindThread(_ context.Context, userA, userB string, listingID *int64) (*models.Thread, error) {
	args := m.Called(userA, userB, listingID)
	t, _ := args.Get(0).(*models.Thread)
	return t, args.Error(1)
}

func (m *MockStore) CreateThread(_ context.Context, t *models.Thread) error {
	args := m.Called(t)
	return args.Error(0)
}

func (m *MockStore) GetThread(_ context.Context, id int64) (*models.Thread, error) {
	args := m.Called(id)
	t, _ := args.Get(0).(*models.Thread)
	return t, args.Error(1)
}

func (m *MockStore) ListThreadsForUser(_ context.Context, userID string, listingID *int64, limit int) ([]models.Thread, error) {
	args := m.Called(userID, listingID, limit)
	ts, _ := args.Get(0).([]models.Thread)
	return ts, args.Error(1)
}

func (m *MockStore) ListThreadMessages(_ context.Context, threadID, afterID int64, limit int) ([]models.ThreadMessage, error) {
	args := m.Called(threadID, afterID, limit)
	msgs, _ := args.Get(0).([]models.ThreadMessage)
	return msgs, args.Error(1)
}

func (m *MockStore) CreateThreadMessage(_ context.Context, msg *models.ThreadMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

type MockProfiles struct {
	mock.Mock
}

func (m *MockProfiles) Ensure(_ context.Context, identity string) (*models.Profile, error) {
	args := m.Called(identity)
	p, _ := args.Get(0).(*models.Profile)
	return p, args.Error(1)
}

func (m *MockProfiles) GetByUsername(_ context.Context, username string) (*models.Profile, error) {
	args := m.Called(username)
	p, _ := args.Get(0).(*models.Profile)
	return p, args.Error(1)
}

type MockListings struct {
	mock.Mock
}

func (m *MockListings) Get(_ context.Context, id int64) (*models.Listing, error) {
	args := m.Called(id)
	l, _ := args.Get(0).(*models.Listing)
	return l, args.Error(1)
}
