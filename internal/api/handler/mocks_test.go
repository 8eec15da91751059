package handler_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mercadogo/backend/internal/auth"
	"mercadogo/backend/internal/dm"
	"mercadogo/backend/internal/listing"
	"mercadogo/backend/internal/models"
)

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(_ context.Context, token string) (auth.Identity, error) {
	args := m.Called(token)
	id, _ := args.Get(0).(auth.Identity)
	return id, args.Error(1)
}

type MockProfiles struct {
	mock.Mock
}

func (m *MockProfiles) Ensure(_ context.Context, identity string) (*models.Profile, error) {
	args := m.Called(identity)
	p, _ := args.Get(0).(*models.Profile)
	return p, args.Error(1)
}

func (m *MockProfiles) SetUsername(_ context.Context, identity, candidate string) (*models.Profile, error) {
	args := m.Called(identity, candidate)
	p, _ := args.Get(0).(*models.Profile)
	return p, args.Error(1)
}

func (m *MockProfiles) GetByUsername(_ context.Context, username string) (*models.Profile, error) {
	args := m.Called(username)
	p, _ := args.Get(0).(*models.Profile)
	return p, args.Error(1)
}

func (m *MockProfiles) Update(_ context.Context, identity string, patch map[string]any) (*models.Profile, error) {
	args := m.Called(identity, patch)
	p, _ := args.Get(0).(*models.Profile)
	return p, args.Error(1)
}

type MockChat struct {
	mock.Mock
}

func (m *MockChat) List(_ context.Context, afterID int64, limit int) ([]models.ChatMessage, error) {
	args := m.Called(afterID, limit)
	msgs, _ := args.Get(0).([]models.ChatMessage)
	return msgs, args.Error(1)
}

func (m *MockChat) Send(_ context.Context, identity, content string) (*models.ChatMessage, error) {
	args := m.Called(identity, content)
	msg, _ := args.Get(0).(*models.ChatMessage)
	return msg, args.Error(1)
}

type MockListings struct {
	mock.Mock
}

func (m *MockListings) Create(_ context.Context, identity string, in listing.CreateInput) (*models.Listing, error) {
	args := m.Called(identity, in)
	l, _ := args.Get(0).(*models.Listing)
	return l, args.Error(1)
}

func (m *MockListings) Get(_ context.Context, id int64) (*models.Listing, error) {
	args := m.Called(id)
	l, _ := args.Get(0).(*models.Listing)
	return l, args.Error(1)
}

func (m *MockListings) ListMine(_ context.Context, identity string, limit int) ([]models.ListingSummary, error) {
	args := m.Called(identity, limit)
	ls, _ := args.Get(0).([]models.ListingSummary)
	return ls, args.Error(1)
}

func (m *MockListings) ListByUser(_ context.Context, username string, limit int) ([]models.ListingSummary, error) {
	args := m.Called(username, limit)
	ls, _ := args.Get(0).([]models.ListingSummary)
	return ls, args.Error(1)
}

func (m *MockListings) ListAll(_ context.Context, regionCode, titleQuery string, limit int) ([]models.ListingSummary, error) {
	args := m.Called(regionCode, titleQuery, limit)
	ls, _ := args.Get(0).([]models.ListingSummary)
	return ls, args.Error(1)
}

type MockDM struct {
	mock.Mock
}

func (m *MockDM) Start(_ context.Context, identity string, in dm.StartInput) (*models.ThreadView, error) {
	args := m.Called(identity, in)
	v, _ := args.Get(0).(*models.ThreadView)
	return v, args.Error(1)
}

func (m *MockDM) GetThread(_ context.Context, identity string, threadID int64) (*models.ThreadView, error) {
	args := m.Called(identity, threadID)
	v, _ := args.Get(0).(*models.ThreadView)
	return v, args.Error(1)
}

func (m *MockDM) ListMessages(_ context.Context, identity string, threadID, afterID int64, limit int) ([]models.ThreadMessage, error) {
	args := m.Called(identity, threadID, afterID, limit)
	msgs, _ := args.Get(0).([]models.ThreadMessage)
	return msgs, args.Error(1)
}

func (m *MockDM) Send(_ context.Context, identity string, threadID int64, content string) (*models.ThreadMessage, error) {
	args := m.Called(identity, threadID, content)
	msg, _ := args.Get(0).(*models.ThreadMessage)
	return msg, args.Error(1)
}

func (m *MockDM) ListThreads(_ context.Context, identity string, listingID *int64, limit int) ([]models.ThreadView, error) {
	args := m.Called(identity, listingID, limit)
	vs, _ := args.Get(0).([]models.ThreadView)
	return vs, args.Error(1)
}
