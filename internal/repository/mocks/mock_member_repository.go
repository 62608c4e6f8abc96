package mocks

import (
	"context"

	"leadengine/internal/model"
	"leadengine/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Upsert(ctx context.Context, mem *model.Member) (bool, error) {
	args := m.Called(ctx, mem)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) FindByID(ctx context.Context, userID, id string) (*model.Member, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Member), args.Error(1)
}

func (m *MockMemberRepository) FindByPlatformID(ctx context.Context, userID, platformMemberID string) (*model.Member, error) {
	args := m.Called(ctx, userID, platformMemberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Member), args.Error(1)
}

func (m *MockMemberRepository) List(ctx context.Context, userID string, f repository.MemberFilter) ([]model.Member, error) {
	args := m.Called(ctx, userID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Member), args.Error(1)
}

func (m *MockMemberRepository) UpdateChurn(ctx context.Context, id string, p repository.ChurnUpdate) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

func (m *MockMemberRepository) RecordRetentionContact(ctx context.Context, memberID string) error {
	args := m.Called(ctx, memberID)
	return args.Error(0)
}

func (m *MockMemberRepository) CreateRetentionMessage(ctx context.Context, rm *model.RetentionMessage) (*model.RetentionMessage, error) {
	args := m.Called(ctx, rm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RetentionMessage), args.Error(1)
}

func (m *MockMemberRepository) ListRetentionMessages(ctx context.Context, memberID string) ([]model.RetentionMessage, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RetentionMessage), args.Error(1)
}
