package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"leadengine/internal/model"
	"leadengine/internal/service"
)

type MockCampaignService struct {
	mock.Mock
}

func (m *MockCampaignService) Create(ctx context.Context, userID string, in service.CampaignInput) (*model.Campaign, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Campaign), args.Error(1)
}

func (m *MockCampaignService) List(ctx context.Context, userID string) ([]model.Campaign, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Campaign), args.Error(1)
}

func (m *MockCampaignService) Get(ctx context.Context, userID, id string) (*model.Campaign, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Campaign), args.Error(1)
}

func (m *MockCampaignService) ListMessages(ctx context.Context, userID, campaignID string) ([]model.OutreachMessage, error) {
	args := m.Called(ctx, userID, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OutreachMessage), args.Error(1)
}

func (m *MockCampaignService) Send(ctx context.Context, user *model.User, campaignID string, leadIDs []string) (*service.SendOutcome, error) {
	args := m.Called(ctx, user, campaignID, leadIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SendOutcome), args.Error(1)
}

func (m *MockCampaignService) Dispatch(ctx context.Context, messageID string) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

func (m *MockCampaignService) Track(ctx context.Context, userID, messageID string, event model.MessageEvent) error {
	args := m.Called(ctx, userID, messageID, event)
	return args.Error(0)
}
