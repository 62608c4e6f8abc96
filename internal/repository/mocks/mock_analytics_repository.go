package mocks

import (
	"context"
	"time"

	"leadengine/internal/model"
	"leadengine/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) DashboardStats(ctx context.Context, userID string, weekStart time.Time) (*repository.DashboardStats, error) {
	args := m.Called(ctx, userID, weekStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.DashboardStats), args.Error(1)
}

type MockBillingRepository struct {
	mock.Mock
}

func (m *MockBillingRepository) CreateTransaction(ctx context.Context, t *model.RevenueTransaction) (*model.RevenueTransaction, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RevenueTransaction), args.Error(1)
}
