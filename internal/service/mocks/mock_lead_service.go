package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"leadengine/internal/model"
	"leadengine/internal/repository"
	"leadengine/internal/service"
)

type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) Create(ctx context.Context, userID string, in service.LeadInput) (*model.Lead, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadService) List(ctx context.Context, userID string, f repository.LeadFilter, limit, offset int) (*service.LeadListResult, error) {
	args := m.Called(ctx, userID, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LeadListResult), args.Error(1)
}

func (m *MockLeadService) Get(ctx context.Context, userID, id string) (*model.Lead, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadService) Update(ctx context.Context, userID, id string, in service.LeadUpdate) (*model.Lead, error) {
	args := m.Called(ctx, userID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadService) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockLeadService) Import(ctx context.Context, userID string, r io.Reader) (*service.ImportResult, error) {
	args := m.Called(ctx, userID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportResult), args.Error(1)
}

func (m *MockLeadService) Export(ctx context.Context, userID string) (*service.ExportResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}
