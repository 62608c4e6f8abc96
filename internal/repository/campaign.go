package repository

import (
	"context"
	"time"

	"leadengine/internal/model"
)

// CampaignRepository defines data access for outreach campaigns and their
// messages.
type CampaignRepository interface {
	// Create inserts a new campaign and returns the stored row.
	Create(ctx context.Context, c *model.Campaign) (*model.Campaign, error)

	// FindByID returns a campaign by ID for the given owner.
	FindByID(ctx context.Context, userID, id string) (*model.Campaign, error)

	// List returns the owner's campaigns, newest first.
	List(ctx context.Context, userID string) ([]model.Campaign, error)

	// MarkStarted flips a draft campaign to active and records started_at.
	MarkStarted(ctx context.Context, id string, at time.Time) error

	// AddCounters increments campaign counters by the given deltas.
	AddCounters(ctx context.Context, id string, totalLeads, messagesSent int) error

	// CreateMessage inserts an outreach message and returns the stored row.
	CreateMessage(ctx context.Context, m *model.OutreachMessage) (*model.OutreachMessage, error)

	// FindMessageLead returns an outreach message together with its target
	// lead. Used by the dispatch worker, which has no owner scope.
	FindMessageLead(ctx context.Context, id string) (*model.OutreachMessage, *model.Lead, error)

	// ListMessages returns a campaign's messages, newest first.
	ListMessages(ctx context.Context, campaignID string) ([]model.OutreachMessage, error)

	// UpdateMessageStatus transitions a message and records the error text
	// for failures. Sent transitions also set sent_at.
	UpdateMessageStatus(ctx context.Context, id string, status model.MessageStatus, errMsg string) error

	// FindMessageForOwner returns an outreach message by ID, scoped to the
	// campaign owner via a join. A message on another user's campaign
	// behaves as absent.
	FindMessageForOwner(ctx context.Context, userID, id string) (*model.OutreachMessage, error)

	// RecordMessageEvent stamps the event timestamp on a message and moves
	// its status along. Reports whether this was the first recording of the
	// event; repeats leave the row untouched.
	RecordMessageEvent(ctx context.Context, id string, event model.MessageEvent, at time.Time) (bool, error)

	// AddResponse increments a campaign's responses_received counter.
	AddResponse(ctx context.Context, campaignID string) error
}
