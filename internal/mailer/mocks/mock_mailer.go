package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"leadengine/internal/mailer"
)

// MockMailer is a testify mock for mailer.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, e mailer.Email) (string, error) {
	args := m.Called(ctx, e)
	return args.String(0), args.Error(1)
}
