package model

import "time"

// CampaignStatus tracks the outreach campaign lifecycle.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
)

// Valid reports whether s is a known campaign status.
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignDraft, CampaignActive, CampaignPaused, CampaignCompleted:
		return true
	}
	return false
}

// MessageStatus tracks an outreach message through delivery.
type MessageStatus string

const (
	MessageDraft     MessageStatus = "draft"
	MessageQueued    MessageStatus = "queued"
	MessageSent      MessageStatus = "sent"
	MessageDelivered MessageStatus = "delivered"
	MessageOpened    MessageStatus = "opened"
	MessageClicked   MessageStatus = "clicked"
	MessageReplied   MessageStatus = "replied"
	MessageFailed    MessageStatus = "failed"
)

// MessageEvent is an engagement signal reported back for a sent message.
type MessageEvent string

const (
	EventOpened  MessageEvent = "opened"
	EventClicked MessageEvent = "clicked"
	EventReplied MessageEvent = "replied"
)

// Valid reports whether e is a known message event.
func (e MessageEvent) Valid() bool {
	switch e {
	case EventOpened, EventClicked, EventReplied:
		return true
	}
	return false
}

// Campaign is an outreach campaign targeting a set of leads with a
// message template.
type Campaign struct {
	ID                     string         `json:"id"`
	UserID                 string         `json:"user_id"`
	Name                   string         `json:"name"`
	Description            string         `json:"description,omitempty"`
	Status                 CampaignStatus `json:"status"`
	SubjectTemplate        string         `json:"subject_template,omitempty"`
	MessageTemplate        string         `json:"message_template"`
	PersonalizationEnabled bool           `json:"personalization_enabled"`
	TotalLeads             int            `json:"total_leads"`
	MessagesSent           int            `json:"messages_sent"`
	ResponsesReceived      int            `json:"responses_received"`
	Conversions            int            `json:"conversions"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
	StartedAt              *time.Time     `json:"started_at,omitempty"`
	CompletedAt            *time.Time     `json:"completed_at,omitempty"`
}

// OutreachMessage is a single rendered message addressed to one lead.
type OutreachMessage struct {
	ID           string        `json:"id"`
	CampaignID   string        `json:"campaign_id"`
	LeadID       string        `json:"lead_id"`
	Subject      string        `json:"subject,omitempty"`
	Content      string        `json:"content"`
	Status       MessageStatus `json:"status"`
	SentAt       *time.Time    `json:"sent_at,omitempty"`
	OpenedAt     *time.Time    `json:"opened_at,omitempty"`
	ClickedAt    *time.Time    `json:"clicked_at,omitempty"`
	RepliedAt    *time.Time    `json:"replied_at,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	RetryCount   int           `json:"retry_count"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
