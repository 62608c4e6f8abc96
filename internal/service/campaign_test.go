package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"leadengine/internal/mailer"
	mailermocks "leadengine/internal/mailer/mocks"
	"leadengine/internal/model"
	"leadengine/internal/queue"
	queuemocks "leadengine/internal/queue/mocks"
	"leadengine/internal/repository/mocks"
)

func TestCampaignService_Create(t *testing.T) {
	ctx := context.Background()
	campaigns := new(mocks.MockCampaignRepository)
	svc := NewCampaignService(campaigns, nil, nil, nil)

	t.Run("stores a draft", func(t *testing.T) {
		var stored *model.Campaign
		campaigns.On("Create", ctx, mock.AnythingOfType("*model.Campaign")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*model.Campaign) }).
			Return(&model.Campaign{ID: "c1"}, nil).Once()

		_, err := svc.Create(ctx, "user-1", CampaignInput{Name: "Welcome push", MessageTemplate: "Hey {{name}}!"})

		assert.NoError(t, err)
		assert.Equal(t, model.CampaignDraft, stored.Status)
		assert.Equal(t, "user-1", stored.UserID)
	})

	t.Run("validates input", func(t *testing.T) {
		_, err := svc.Create(ctx, "user-1", CampaignInput{MessageTemplate: "hi"})
		assert.ErrorIs(t, err, ErrCampaignNameMissing)

		_, err = svc.Create(ctx, "user-1", CampaignInput{Name: "x"})
		assert.ErrorIs(t, err, ErrTemplateMissing)
	})
}

func TestCampaignService_Send(t *testing.T) {
	ctx := context.Background()
	owner := &model.User{ID: "user-1", CommunityName: "Trade Signals"}

	t.Run("renders, stores and queues per lead", func(t *testing.T) {
		campaigns := new(mocks.MockCampaignRepository)
		leads := new(mocks.MockLeadRepository)
		pub := new(queuemocks.MockPublisher)
		svc := NewCampaignService(campaigns, leads, pub, nil)

		campaigns.On("FindByID", ctx, "user-1", "c1").
			Return(&model.Campaign{ID: "c1", UserID: "user-1", Status: model.CampaignDraft, MessageTemplate: "Hey {{name}}, check out {{community}}"}, nil).Once()

		leads.On("FindByID", ctx, "user-1", "lead-1").
			Return(&model.Lead{ID: "lead-1", Name: "Alice", Email: "alice@example.com"}, nil).Once()
		leads.On("FindByID", ctx, "user-1", "gone").
			Return(nil, sql.ErrNoRows).Once()

		var created *model.OutreachMessage
		campaigns.On("CreateMessage", ctx, mock.AnythingOfType("*model.OutreachMessage")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*model.OutreachMessage) }).
			Return(&model.OutreachMessage{ID: "msg-1"}, nil).Once()
		pub.On("Publish", ctx, queue.OutreachJob{OutreachMessageID: "msg-1"}).Return(nil).Once()
		campaigns.On("MarkStarted", ctx, "c1", mock.AnythingOfType("time.Time")).Return(nil).Once()
		campaigns.On("AddCounters", ctx, "c1", 1, 0).Return(nil).Once()

		out, err := svc.Send(ctx, owner, "c1", []string{"lead-1", "gone"})

		assert.NoError(t, err)
		assert.Equal(t, 1, out.Queued)
		assert.Equal(t, 1, out.Skipped)
		assert.Equal(t, model.MessageQueued, created.Status)
		assert.Equal(t, "Hey Alice, check out Trade Signals", created.Content)
		campaigns.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("personalization appends talking points", func(t *testing.T) {
		campaigns := new(mocks.MockCampaignRepository)
		leads := new(mocks.MockLeadRepository)
		pub := new(queuemocks.MockPublisher)
		svc := NewCampaignService(campaigns, leads, pub, nil)

		campaigns.On("FindByID", ctx, "user-1", "c1").
			Return(&model.Campaign{ID: "c1", UserID: "user-1", Status: model.CampaignDraft,
				MessageTemplate: "Hey {{name}}", PersonalizationEnabled: true}, nil).Once()
		leads.On("FindByID", ctx, "user-1", "lead-1").
			Return(&model.Lead{ID: "lead-1", Name: "Alice", Interests: []string{"trading", "crypto"}}, nil).Once()

		var created *model.OutreachMessage
		campaigns.On("CreateMessage", ctx, mock.AnythingOfType("*model.OutreachMessage")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*model.OutreachMessage) }).
			Return(&model.OutreachMessage{ID: "msg-1"}, nil).Once()
		pub.On("Publish", ctx, mock.Anything).Return(nil).Once()
		campaigns.On("MarkStarted", ctx, "c1", mock.AnythingOfType("time.Time")).Return(nil).Once()
		campaigns.On("AddCounters", ctx, "c1", 1, 0).Return(nil).Once()

		_, err := svc.Send(ctx, owner, "c1", []string{"lead-1"})

		assert.NoError(t, err)
		assert.Contains(t, created.Content, "P.S. I noticed you're into trading, crypto.")
	})

	t.Run("rejects completed campaigns", func(t *testing.T) {
		campaigns := new(mocks.MockCampaignRepository)
		svc := NewCampaignService(campaigns, nil, nil, nil)

		campaigns.On("FindByID", ctx, "user-1", "c1").
			Return(&model.Campaign{ID: "c1", Status: model.CampaignCompleted}, nil).Once()

		_, err := svc.Send(ctx, owner, "c1", []string{"lead-1"})

		assert.ErrorIs(t, err, ErrCampaignFinished)
	})

	t.Run("rejects empty target list", func(t *testing.T) {
		campaigns := new(mocks.MockCampaignRepository)
		svc := NewCampaignService(campaigns, nil, nil, nil)

		campaigns.On("FindByID", ctx, "user-1", "c1").
			Return(&model.Campaign{ID: "c1", Status: model.CampaignDraft}, nil).Once()

		_, err := svc.Send(ctx, owner, "c1", nil)

		assert.ErrorIs(t, err, ErrNoTargets)
	})

	t.Run("unknown campaign", func(t *testing.T) {
		campaigns := new(mocks.MockCampaignRepository)
		svc := NewCampaignService(campaigns, nil, nil, nil)

		campaigns.On("FindByID", ctx, "user-1", "missing").Return(nil, sql.ErrNoRows).Once()

		_, err := svc.Send(ctx, owner, "missing", []string{"lead-1"})

		assert.ErrorIs(t, err, ErrCampaignNotFound)
	})
}

func TestCampaignService_Dispatch(t *testing.T) {
	ctx := context.Background()

	queued := func() (*model.OutreachMessage, *model.Lead) {
		return &model.OutreachMessage{ID: "msg-1", CampaignID: "c1", LeadID: "lead-1", Subject: "Hi", Content: "Hey Alice", Status: model.MessageQueued},
			&model.Lead{ID: "lead-1", Email: "alice@example.com"}
	}

	t.Run("delivers and records sent", func(t *testing.T) {
		campaigns := new(mocks.MockCampaignRepository)
		leads := new(mocks.MockLeadRepository)
		mail := new(mailermocks.MockMailer)
		svc := NewCampaignService(campaigns, leads, nil, mail)

		msg, lead := queued()
		campaigns.On("FindMessageLead", ctx, "msg-1").Return(msg, lead, nil).Once()
		mail.On("Send", ctx, mailer.Email{To: "alice@example.com", Subject: "Hi", Body: "Hey Alice"}).
			Return("ext_1", nil).Once()
		campaigns.On("UpdateMessageStatus", ctx, "msg-1", model.MessageSent, "").Return(nil).Once()
		leads.On("RecordContact", ctx, "lead-1", mock.AnythingOfType("time.Time")).Return(nil).Once()
		campaigns.On("AddCounters", ctx, "c1", 0, 1).Return(nil).Once()

		assert.NoError(t, svc.Dispatch(ctx, "msg-1"))
		campaigns.AssertExpectations(t)
		leads.AssertExpectations(t)
	})

	t.Run("records failure when mailer errors", func(t *testing.T) {
		campaigns := new(mocks.MockCampaignRepository)
		leads := new(mocks.MockLeadRepository)
		mail := new(mailermocks.MockMailer)
		svc := NewCampaignService(campaigns, leads, nil, mail)

		msg, lead := queued()
		campaigns.On("FindMessageLead", ctx, "msg-1").Return(msg, lead, nil).Once()
		mail.On("Send", ctx, mock.Anything).Return("", errors.New("provider down")).Once()
		campaigns.On("UpdateMessageStatus", ctx, "msg-1", model.MessageFailed, "provider down").Return(nil).Once()

		err := svc.Dispatch(ctx, "msg-1")

		assert.Error(t, err)
		campaigns.AssertNotCalled(t, "AddCounters", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		leads.AssertNotCalled(t, "RecordContact", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("fails fast for leads without email", func(t *testing.T) {
		campaigns := new(mocks.MockCampaignRepository)
		mail := new(mailermocks.MockMailer)
		svc := NewCampaignService(campaigns, nil, nil, mail)

		msg, lead := queued()
		lead.Email = ""
		campaigns.On("FindMessageLead", ctx, "msg-1").Return(msg, lead, nil).Once()
		campaigns.On("UpdateMessageStatus", ctx, "msg-1", model.MessageFailed, "lead has no email address").Return(nil).Once()

		assert.NoError(t, svc.Dispatch(ctx, "msg-1"))
		mail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("stamps the contact on the lead at send time", func(t *testing.T) {
		campaigns := new(mocks.MockCampaignRepository)
		leads := new(mocks.MockLeadRepository)
		mail := new(mailermocks.MockMailer)
		svc := NewCampaignService(campaigns, leads, nil, mail)

		sentAt := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
		svc.(*campaignService).now = func() time.Time { return sentAt }

		msg, lead := queued()
		campaigns.On("FindMessageLead", ctx, "msg-1").Return(msg, lead, nil).Once()
		mail.On("Send", ctx, mock.Anything).Return("ext_1", nil).Once()
		campaigns.On("UpdateMessageStatus", ctx, "msg-1", model.MessageSent, "").Return(nil).Once()
		leads.On("RecordContact", ctx, "lead-1", sentAt).Return(nil).Once()
		campaigns.On("AddCounters", ctx, "c1", 0, 1).Return(nil).Once()

		assert.NoError(t, svc.Dispatch(ctx, "msg-1"))
		leads.AssertExpectations(t)
	})

	t.Run("redelivered job for a sent message is a no-op", func(t *testing.T) {
		campaigns := new(mocks.MockCampaignRepository)
		mail := new(mailermocks.MockMailer)
		svc := NewCampaignService(campaigns, nil, nil, mail)

		msg, lead := queued()
		msg.Status = model.MessageSent
		campaigns.On("FindMessageLead", ctx, "msg-1").Return(msg, lead, nil).Once()

		assert.NoError(t, svc.Dispatch(ctx, "msg-1"))
		mail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

func TestCampaignService_Track(t *testing.T) {
	ctx := context.Background()

	sent := func() *model.OutreachMessage {
		return &model.OutreachMessage{ID: "msg-1", CampaignID: "c1", LeadID: "lead-1", Status: model.MessageSent}
	}

	t.Run("first reply bumps the campaign response counter", func(t *testing.T) {
		campaigns := new(mocks.MockCampaignRepository)
		svc := NewCampaignService(campaigns, nil, nil, nil)

		campaigns.On("FindMessageForOwner", ctx, "user-1", "msg-1").Return(sent(), nil).Once()
		campaigns.On("RecordMessageEvent", ctx, "msg-1", model.EventReplied, mock.AnythingOfType("time.Time")).
			Return(true, nil).Once()
		campaigns.On("AddResponse", ctx, "c1").Return(nil).Once()

		assert.NoError(t, svc.Track(ctx, "user-1", "msg-1", model.EventReplied))
		campaigns.AssertExpectations(t)
	})

	t.Run("repeated reply does not double count", func(t *testing.T) {
		campaigns := new(mocks.MockCampaignRepository)
		svc := NewCampaignService(campaigns, nil, nil, nil)

		campaigns.On("FindMessageForOwner", ctx, "user-1", "msg-1").Return(sent(), nil).Once()
		campaigns.On("RecordMessageEvent", ctx, "msg-1", model.EventReplied, mock.AnythingOfType("time.Time")).
			Return(false, nil).Once()

		assert.NoError(t, svc.Track(ctx, "user-1", "msg-1", model.EventReplied))
		campaigns.AssertNotCalled(t, "AddResponse", mock.Anything, mock.Anything)
	})

	t.Run("opened does not touch the response counter", func(t *testing.T) {
		campaigns := new(mocks.MockCampaignRepository)
		svc := NewCampaignService(campaigns, nil, nil, nil)

		campaigns.On("FindMessageForOwner", ctx, "user-1", "msg-1").Return(sent(), nil).Once()
		campaigns.On("RecordMessageEvent", ctx, "msg-1", model.EventOpened, mock.AnythingOfType("time.Time")).
			Return(true, nil).Once()

		assert.NoError(t, svc.Track(ctx, "user-1", "msg-1", model.EventOpened))
		campaigns.AssertNotCalled(t, "AddResponse", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown events", func(t *testing.T) {
		campaigns := new(mocks.MockCampaignRepository)
		svc := NewCampaignService(campaigns, nil, nil, nil)

		err := svc.Track(ctx, "user-1", "msg-1", model.MessageEvent("bounced"))

		assert.ErrorIs(t, err, ErrInvalidEvent)
		campaigns.AssertNotCalled(t, "FindMessageForOwner", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("message on another owner's campaign is absent", func(t *testing.T) {
		campaigns := new(mocks.MockCampaignRepository)
		svc := NewCampaignService(campaigns, nil, nil, nil)

		campaigns.On("FindMessageForOwner", ctx, "user-2", "msg-1").Return(nil, sql.ErrNoRows).Once()

		err := svc.Track(ctx, "user-2", "msg-1", model.EventReplied)

		assert.ErrorIs(t, err, ErrMessageNotFound)
	})
}
