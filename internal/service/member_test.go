package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"leadengine/internal/mailer"
	mailermocks "leadengine/internal/mailer/mocks"
	"leadengine/internal/model"
	"leadengine/internal/repository"
	"leadengine/internal/repository/mocks"
	"leadengine/internal/whop"
	whopmocks "leadengine/internal/whop/mocks"
)

func TestMemberService_Sync(t *testing.T) {
	ctx := context.Background()

	t.Run("upserts and recomputes churn", func(t *testing.T) {
		members := new(mocks.MockMemberRepository)
		platform := new(whopmocks.MockMembershipAPI)
		svc := NewMemberService(members, platform, nil)

		lastActive := time.Now().UTC().Add(-20 * 24 * time.Hour)
		platform.On("ListMemberships", ctx, "whop_key", "biz_1").Return([]whop.Membership{
			{ID: "mem_a", Email: "A@Example.com", Username: "alice", Status: "active", PlanName: "pro", RenewalPrice: 49, LastActiveAt: &lastActive, JoinedAt: time.Now().UTC().Add(-90 * 24 * time.Hour)},
			{ID: "mem_b", Username: "bob", Status: "canceled", JoinedAt: time.Now().UTC().Add(-60 * 24 * time.Hour)},
		}, nil).Once()

		members.On("Upsert", ctx, mock.MatchedBy(func(m *model.Member) bool {
			return m.PlatformMemberID == "mem_a" && m.Email == "a@example.com" && m.Status == model.MemberActive
		})).Return(true, nil).Once()
		members.On("Upsert", ctx, mock.MatchedBy(func(m *model.Member) bool {
			return m.PlatformMemberID == "mem_b" && m.Status == model.MemberChurned
		})).Return(false, nil).Once()

		var updates []repository.ChurnUpdate
		members.On("UpdateChurn", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("repository.ChurnUpdate")).
			Run(func(args mock.Arguments) { updates = append(updates, args.Get(2).(repository.ChurnUpdate)) }).
			Return(nil).Twice()

		user := &model.User{ID: "user-1", APIKey: "whop_key", CommunityID: "biz_1"}
		res, err := svc.Sync(ctx, user)

		assert.NoError(t, err)
		assert.Equal(t, &SyncResult{Created: 1, Updated: 1, Total: 2}, res)
		assert.Len(t, updates, 2)
		// 20 days inactive lands in the high band
		assert.Equal(t, model.RiskHigh, updates[0].Risk)
		members.AssertExpectations(t)
	})

	t.Run("requires platform credentials", func(t *testing.T) {
		svc := NewMemberService(new(mocks.MockMemberRepository), new(whopmocks.MockMembershipAPI), nil)

		_, err := svc.Sync(ctx, &model.User{ID: "user-1", CommunityID: "biz_1"})
		assert.ErrorIs(t, err, ErrAPIKeyMissing)

		_, err = svc.Sync(ctx, &model.User{ID: "user-1", APIKey: "whop_key"})
		assert.ErrorIs(t, err, ErrCommunityMissing)
	})
}

func TestMemberService_ChurnSummary(t *testing.T) {
	ctx := context.Background()
	members := new(mocks.MockMemberRepository)
	svc := NewMemberService(members, nil, nil)

	members.On("List", ctx, "user-1", repository.MemberFilter{}).Return([]model.Member{
		{ID: "m1", ChurnRisk: model.RiskLow},
		{ID: "m2", ChurnRisk: model.RiskMedium},
		{ID: "m3", ChurnRisk: model.RiskHigh},
		{ID: "m4", ChurnRisk: model.RiskCritical},
		{ID: "m5", ChurnRisk: model.RiskCritical},
	}, nil).Once()

	sum, err := svc.ChurnSummary(ctx, "user-1")

	assert.NoError(t, err)
	assert.Equal(t, 1, sum.Low)
	assert.Equal(t, 1, sum.Medium)
	assert.Equal(t, 1, sum.High)
	assert.Equal(t, 2, sum.Critical)
	assert.Len(t, sum.AtRisk, 3)
}

func TestMemberService_SendRetention(t *testing.T) {
	ctx := context.Background()

	atRisk := func() *model.Member {
		return &model.Member{
			ID:           "m1",
			UserID:       "user-1",
			Email:        "alice@example.com",
			FullName:     "Alice",
			ChurnRisk:    model.RiskCritical,
			DaysInactive: 35,
		}
	}

	t.Run("sends a personal check-in for critical risk", func(t *testing.T) {
		members := new(mocks.MockMemberRepository)
		mail := new(mailermocks.MockMailer)
		svc := NewMemberService(members, nil, mail)

		members.On("FindByID", ctx, "user-1", "m1").Return(atRisk(), nil).Once()

		var sent mailer.Email
		mail.On("Send", ctx, mock.AnythingOfType("mailer.Email")).
			Run(func(args mock.Arguments) { sent = args.Get(1).(mailer.Email) }).
			Return("ext_1", nil).Once()

		members.On("CreateRetentionMessage", ctx, mock.MatchedBy(func(rm *model.RetentionMessage) bool {
			return rm.MemberID == "m1" && rm.MessageType == "personal_check_in" && rm.ExternalMessageID == "ext_1"
		})).Return(&model.RetentionMessage{ID: "rm1", MessageType: "personal_check_in"}, nil).Once()
		members.On("RecordRetentionContact", ctx, "m1").Return(nil).Once()

		rm, err := svc.SendRetention(ctx, "user-1", "m1")

		assert.NoError(t, err)
		assert.Equal(t, "personal_check_in", rm.MessageType)
		assert.Equal(t, "alice@example.com", sent.To)
		assert.Contains(t, sent.Body, "Alice")
		members.AssertExpectations(t)
	})

	t.Run("honors the anti-spam window", func(t *testing.T) {
		members := new(mocks.MockMemberRepository)
		mail := new(mailermocks.MockMailer)
		svc := NewMemberService(members, nil, mail)

		m := atRisk()
		recent := time.Now().UTC().Add(-2 * 24 * time.Hour)
		m.LastRetentionContact = &recent
		members.On("FindByID", ctx, "user-1", "m1").Return(m, nil).Once()

		_, err := svc.SendRetention(ctx, "user-1", "m1")

		assert.ErrorIs(t, err, ErrRetentionTooSoon)
		mail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("allows contact after the window elapses", func(t *testing.T) {
		members := new(mocks.MockMemberRepository)
		mail := new(mailermocks.MockMailer)
		svc := NewMemberService(members, nil, mail)

		m := atRisk()
		old := time.Now().UTC().Add(-8 * 24 * time.Hour)
		m.LastRetentionContact = &old
		members.On("FindByID", ctx, "user-1", "m1").Return(m, nil).Once()
		mail.On("Send", ctx, mock.Anything).Return("ext_2", nil).Once()
		members.On("CreateRetentionMessage", ctx, mock.Anything).
			Return(&model.RetentionMessage{ID: "rm2"}, nil).Once()
		members.On("RecordRetentionContact", ctx, "m1").Return(nil).Once()

		_, err := svc.SendRetention(ctx, "user-1", "m1")

		assert.NoError(t, err)
	})

	t.Run("requires an email address", func(t *testing.T) {
		members := new(mocks.MockMemberRepository)
		svc := NewMemberService(members, nil, new(mailermocks.MockMailer))

		m := atRisk()
		m.Email = ""
		members.On("FindByID", ctx, "user-1", "m1").Return(m, nil).Once()

		_, err := svc.SendRetention(ctx, "user-1", "m1")

		assert.ErrorIs(t, err, ErrMemberNoEmail)
	})
}
