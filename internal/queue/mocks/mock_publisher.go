package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"leadengine/internal/queue"
)

// MockPublisher is a testify mock for queue.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, job queue.OutreachJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
