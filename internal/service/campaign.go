package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"leadengine/internal/mailer"
	"leadengine/internal/model"
	"leadengine/internal/queue"
	"leadengine/internal/repository"
)

var (
	ErrCampaignNotFound    = errors.New("campaign not found")
	ErrCampaignNameMissing = errors.New("campaign name is required")
	ErrTemplateMissing     = errors.New("message template is required")
	ErrCampaignFinished    = errors.New("campaign is completed")
	ErrNoTargets           = errors.New("no leads to send to")
	ErrMessageNotFound     = errors.New("outreach message not found")
	ErrInvalidEvent        = errors.New("unknown tracking event")
)

// CampaignInput carries the fields accepted when creating a campaign.
type CampaignInput struct {
	Name                   string
	Description            string
	SubjectTemplate        string
	MessageTemplate        string
	PersonalizationEnabled bool
}

// SendOutcome summarizes a campaign dispatch request.
type SendOutcome struct {
	CampaignID string `json:"campaign_id"`
	Queued     int    `json:"queued"`
	Skipped    int    `json:"skipped"`
}

// CampaignService defines outreach campaign use cases.
type CampaignService interface {
	// Create stores a new draft campaign.
	Create(ctx context.Context, userID string, in CampaignInput) (*model.Campaign, error)

	// List returns the owner's campaigns, newest first.
	List(ctx context.Context, userID string) ([]model.Campaign, error)

	// Get returns a single campaign by ID.
	Get(ctx context.Context, userID, id string) (*model.Campaign, error)

	// ListMessages returns a campaign's outreach messages.
	ListMessages(ctx context.Context, userID, campaignID string) ([]model.OutreachMessage, error)

	// Send renders one message per target lead, stores them as queued and
	// publishes a dispatch job for each. Leads that don't exist for this
	// owner are skipped.
	Send(ctx context.Context, user *model.User, campaignID string, leadIDs []string) (*SendOutcome, error)

	// Dispatch delivers one queued message. Called by the background
	// worker; a returned error leaves the job eligible for redelivery.
	Dispatch(ctx context.Context, messageID string) error

	// Track records an engagement event (opened, clicked, replied) on one
	// of the owner's outreach messages. Repeat events are no-ops; the first
	// reply also bumps the campaign's response counter.
	Track(ctx context.Context, userID, messageID string, event model.MessageEvent) error
}

type campaignService struct {
	campaigns repository.CampaignRepository
	leads     repository.LeadRepository
	publisher queue.Publisher
	mail      mailer.Mailer
	now       func() time.Time
}

// NewCampaignService constructs a new CampaignService.
func NewCampaignService(campaigns repository.CampaignRepository, leads repository.LeadRepository, publisher queue.Publisher, mail mailer.Mailer) CampaignService {
	return &campaignService{campaigns: campaigns, leads: leads, publisher: publisher, mail: mail, now: time.Now}
}

func (s *campaignService) Create(ctx context.Context, userID string, in CampaignInput) (*model.Campaign, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrCampaignNameMissing
	}
	if strings.TrimSpace(in.MessageTemplate) == "" {
		return nil, ErrTemplateMissing
	}

	c := &model.Campaign{
		ID:                     uuid.New().String(),
		UserID:                 userID,
		Name:                   strings.TrimSpace(in.Name),
		Description:            in.Description,
		Status:                 model.CampaignDraft,
		SubjectTemplate:        in.SubjectTemplate,
		MessageTemplate:        in.MessageTemplate,
		PersonalizationEnabled: in.PersonalizationEnabled,
		CreatedAt:              s.now().UTC(),
	}
	return s.campaigns.Create(ctx, c)
}

func (s *campaignService) List(ctx context.Context, userID string) ([]model.Campaign, error) {
	return s.campaigns.List(ctx, userID)
}

func (s *campaignService) Get(ctx context.Context, userID, id string) (*model.Campaign, error) {
	c, err := s.campaigns.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *campaignService) ListMessages(ctx context.Context, userID, campaignID string) ([]model.OutreachMessage, error) {
	c, err := s.Get(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}
	return s.campaigns.ListMessages(ctx, c.ID)
}

func (s *campaignService) Send(ctx context.Context, user *model.User, campaignID string, leadIDs []string) (*SendOutcome, error) {
	c, err := s.Get(ctx, user.ID, campaignID)
	if err != nil {
		return nil, err
	}
	if c.Status == model.CampaignCompleted {
		return nil, ErrCampaignFinished
	}
	if len(leadIDs) == 0 {
		return nil, ErrNoTargets
	}

	now := s.now().UTC()
	out := &SendOutcome{CampaignID: c.ID}
	for _, leadID := range leadIDs {
		l, err := s.leads.FindByID(ctx, user.ID, leadID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				out.Skipped++
				continue
			}
			return nil, err
		}

		subject := renderTemplate(c.SubjectTemplate, l, user)
		content := renderTemplate(c.MessageTemplate, l, user)
		if c.PersonalizationEnabled {
			content = appendTalkingPoints(content, l)
		}

		msg, err := s.campaigns.CreateMessage(ctx, &model.OutreachMessage{
			ID:         uuid.New().String(),
			CampaignID: c.ID,
			LeadID:     l.ID,
			Subject:    subject,
			Content:    content,
			Status:     model.MessageQueued,
			CreatedAt:  now,
		})
		if err != nil {
			return nil, fmt.Errorf("create outreach message: %w", err)
		}
		if err := s.publisher.Publish(ctx, queue.OutreachJob{OutreachMessageID: msg.ID}); err != nil {
			return nil, fmt.Errorf("publish dispatch job: %w", err)
		}
		out.Queued++
	}

	if out.Queued > 0 {
		if err := s.campaigns.MarkStarted(ctx, c.ID, now); err != nil {
			return nil, fmt.Errorf("mark campaign started: %w", err)
		}
		if err := s.campaigns.AddCounters(ctx, c.ID, out.Queued, 0); err != nil {
			return nil, fmt.Errorf("update campaign counters: %w", err)
		}
	}
	return out, nil
}

// renderTemplate substitutes {{name}} and {{community}} placeholders.
func renderTemplate(tpl string, l *model.Lead, owner *model.User) string {
	name := l.Name
	if name == "" {
		name = l.Username
	}
	if name == "" {
		name = "there"
	}
	community := owner.CommunityName
	if community == "" {
		community = "our community"
	}

	out := strings.ReplaceAll(tpl, "{{name}}", name)
	out = strings.ReplaceAll(out, "{{community}}", community)
	return out
}

// appendTalkingPoints adds a postscript built from the lead's scored
// interests and pain points. Leads with neither keep the plain message.
func appendTalkingPoints(content string, l *model.Lead) string {
	var points []string
	if len(l.Interests) > 0 {
		points = append(points, "I noticed you're into "+strings.Join(l.Interests, ", ")+".")
	}
	if len(l.PainPoints) > 0 {
		points = append(points, "You mentioned struggling with "+strings.Join(l.PainPoints, ", ")+" - happy to share what's worked for others.")
	}
	if len(points) == 0 {
		return content
	}
	return content + "\n\nP.S. " + strings.Join(points, " ")
}

func (s *campaignService) Dispatch(ctx context.Context, messageID string) error {
	msg, lead, err := s.campaigns.FindMessageLead(ctx, messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMessageNotFound
		}
		return err
	}
	if msg.Status != model.MessageQueued && msg.Status != model.MessageFailed {
		return nil // already delivered; redelivered job is a no-op
	}

	if lead.Email == "" {
		return s.campaigns.UpdateMessageStatus(ctx, msg.ID, model.MessageFailed, "lead has no email address")
	}

	if _, err := s.mail.Send(ctx, mailer.Email{To: lead.Email, Subject: msg.Subject, Body: msg.Content}); err != nil {
		if uerr := s.campaigns.UpdateMessageStatus(ctx, msg.ID, model.MessageFailed, err.Error()); uerr != nil {
			return fmt.Errorf("send failed (%v); record failure: %w", err, uerr)
		}
		return fmt.Errorf("send outreach email: %w", err)
	}

	if err := s.campaigns.UpdateMessageStatus(ctx, msg.ID, model.MessageSent, ""); err != nil {
		return fmt.Errorf("record sent: %w", err)
	}
	if err := s.leads.RecordContact(ctx, lead.ID, s.now().UTC()); err != nil {
		return fmt.Errorf("record lead contact: %w", err)
	}
	return s.campaigns.AddCounters(ctx, msg.CampaignID, 0, 1)
}

func (s *campaignService) Track(ctx context.Context, userID, messageID string, event model.MessageEvent) error {
	if !event.Valid() {
		return ErrInvalidEvent
	}
	msg, err := s.campaigns.FindMessageForOwner(ctx, userID, messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMessageNotFound
		}
		return err
	}

	first, err := s.campaigns.RecordMessageEvent(ctx, msg.ID, event, s.now().UTC())
	if err != nil {
		return fmt.Errorf("record message event: %w", err)
	}
	if first && event == model.EventReplied {
		if err := s.campaigns.AddResponse(ctx, msg.CampaignID); err != nil {
			return fmt.Errorf("count campaign response: %w", err)
		}
	}
	return nil
}
