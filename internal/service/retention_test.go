package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	mailermocks "leadengine/internal/mailer/mocks"
	"leadengine/internal/model"
	"leadengine/internal/repository"
	"leadengine/internal/repository/mocks"
	"leadengine/internal/whop"
	whopmocks "leadengine/internal/whop/mocks"
)

// The sweep is exercised end to end through a real MemberService backed by
// repository, platform and mailer mocks.
func TestRetentionService_Sweep(t *testing.T) {
	ctx := context.Background()

	users := new(mocks.MockUserRepository)
	members := new(mocks.MockMemberRepository)
	platform := new(whopmocks.MockMembershipAPI)
	mail := new(mailermocks.MockMailer)

	memberSvc := NewMemberService(members, platform, mail)
	svc := NewRetentionService(users, memberSvc)

	owner := model.User{ID: "user-1", APIKey: "whop_key", CommunityID: "biz_1", IsActive: true}
	users.On("ListActiveWithAPIKey", ctx).Return([]model.User{owner}, nil).Once()

	// sync returns one long-inactive member
	inactive := time.Now().UTC().Add(-40 * 24 * time.Hour)
	platform.On("ListMemberships", ctx, "whop_key", "biz_1").Return([]whop.Membership{
		{ID: "mem_a", Email: "a@example.com", Username: "alice", Status: "active", LastActiveAt: &inactive, JoinedAt: inactive},
	}, nil).Once()
	members.On("Upsert", ctx, mock.AnythingOfType("*model.Member")).Return(false, nil).Once()
	members.On("UpdateChurn", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("repository.ChurnUpdate")).Return(nil).Once()

	critical := model.Member{ID: "m1", UserID: "user-1", Email: "a@example.com", ChurnRisk: model.RiskCritical, DaysInactive: 40}
	noEmail := model.Member{ID: "m2", UserID: "user-1", ChurnRisk: model.RiskHigh, DaysInactive: 20}
	members.On("List", ctx, "user-1", repository.MemberFilter{ChurnRisk: model.RiskCritical}).
		Return([]model.Member{critical}, nil).Once()
	members.On("List", ctx, "user-1", repository.MemberFilter{ChurnRisk: model.RiskHigh}).
		Return([]model.Member{noEmail}, nil).Once()

	members.On("FindByID", ctx, "user-1", "m1").Return(&critical, nil).Once()
	members.On("FindByID", ctx, "user-1", "m2").Return(&noEmail, nil).Once()

	mail.On("Send", ctx, mock.AnythingOfType("mailer.Email")).Return("ext_1", nil).Once()
	members.On("CreateRetentionMessage", ctx, mock.AnythingOfType("*model.RetentionMessage")).
		Return(&model.RetentionMessage{ID: "rm1"}, nil).Once()
	members.On("RecordRetentionContact", ctx, "m1").Return(nil).Once()

	res, err := svc.Sweep(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Users)
	assert.Equal(t, 1, res.Synced)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 1, res.Skipped) // the member without an email address
	mail.AssertExpectations(t)
	members.AssertExpectations(t)
}

func TestRetentionService_SweepSkipsBrokenAccounts(t *testing.T) {
	ctx := context.Background()

	users := new(mocks.MockUserRepository)
	members := new(mocks.MockMemberRepository)
	platform := new(whopmocks.MockMembershipAPI)

	svc := NewRetentionService(users, NewMemberService(members, platform, nil))

	users.On("ListActiveWithAPIKey", ctx).Return([]model.User{
		{ID: "user-1", APIKey: "revoked", CommunityID: "biz_1"},
	}, nil).Once()
	platform.On("ListMemberships", ctx, "revoked", "biz_1").
		Return(nil, whop.ErrUnauthorized).Once()

	res, err := svc.Sweep(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Zero(t, res.Sent)
}
