package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"leadengine/internal/model"
	"leadengine/internal/repository"
	"leadengine/internal/service"
)

type MockMemberService struct {
	mock.Mock
}

func (m *MockMemberService) List(ctx context.Context, userID string, f repository.MemberFilter) ([]model.Member, error) {
	args := m.Called(ctx, userID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Member), args.Error(1)
}

func (m *MockMemberService) Get(ctx context.Context, userID, id string) (*model.Member, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Member), args.Error(1)
}

func (m *MockMemberService) Sync(ctx context.Context, user *model.User) (*service.SyncResult, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SyncResult), args.Error(1)
}

func (m *MockMemberService) ChurnSummary(ctx context.Context, userID string) (*service.ChurnSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChurnSummary), args.Error(1)
}

func (m *MockMemberService) SendRetention(ctx context.Context, userID, memberID string) (*model.RetentionMessage, error) {
	args := m.Called(ctx, userID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RetentionMessage), args.Error(1)
}

func (m *MockMemberService) ListRetentionMessages(ctx context.Context, userID, memberID string) ([]model.RetentionMessage, error) {
	args := m.Called(ctx, userID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RetentionMessage), args.Error(1)
}
