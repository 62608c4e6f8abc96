package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"leadengine/internal/model"
	"leadengine/internal/service"
)

type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) RecordPayment(ctx context.Context, ev service.PaymentEvent) (*model.RevenueTransaction, error) {
	args := m.Called(ctx, ev)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RevenueTransaction), args.Error(1)
}
