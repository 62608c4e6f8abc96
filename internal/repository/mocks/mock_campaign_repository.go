package mocks

import (
	"context"
	"time"

	"leadengine/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) Create(ctx context.Context, c *model.Campaign) (*model.Campaign, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) FindByID(ctx context.Context, userID, id string) (*model.Campaign, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) List(ctx context.Context, userID string) ([]model.Campaign, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) MarkStarted(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockCampaignRepository) AddCounters(ctx context.Context, id string, totalLeads, messagesSent int) error {
	args := m.Called(ctx, id, totalLeads, messagesSent)
	return args.Error(0)
}

func (m *MockCampaignRepository) CreateMessage(ctx context.Context, msg *model.OutreachMessage) (*model.OutreachMessage, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OutreachMessage), args.Error(1)
}

func (m *MockCampaignRepository) FindMessageLead(ctx context.Context, id string) (*model.OutreachMessage, *model.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.OutreachMessage), args.Get(1).(*model.Lead), args.Error(2)
}

func (m *MockCampaignRepository) ListMessages(ctx context.Context, campaignID string) ([]model.OutreachMessage, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OutreachMessage), args.Error(1)
}

func (m *MockCampaignRepository) UpdateMessageStatus(ctx context.Context, id string, status model.MessageStatus, errMsg string) error {
	args := m.Called(ctx, id, status, errMsg)
	return args.Error(0)
}

func (m *MockCampaignRepository) FindMessageForOwner(ctx context.Context, userID, id string) (*model.OutreachMessage, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OutreachMessage), args.Error(1)
}

func (m *MockCampaignRepository) RecordMessageEvent(ctx context.Context, id string, event model.MessageEvent, at time.Time) (bool, error) {
	args := m.Called(ctx, id, event, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockCampaignRepository) AddResponse(ctx context.Context, campaignID string) error {
	args := m.Called(ctx, campaignID)
	return args.Error(0)
}
