package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"leadengine/internal/whop"
)

// MockMembershipAPI is a testify mock for whop.MembershipAPI.
type MockMembershipAPI struct {
	mock.Mock
}

func (m *MockMembershipAPI) ListMemberships(ctx context.Context, apiKey, communityID string) ([]whop.Membership, error) {
	args := m.Called(ctx, apiKey, communityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]whop.Membership), args.Error(1)
}
