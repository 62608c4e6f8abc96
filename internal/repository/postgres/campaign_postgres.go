package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"leadengine/internal/model"
	"leadengine/internal/repository"
)

// CampaignPostgres is a PostgreSQL implementation of repository.CampaignRepository.
type CampaignPostgres struct {
	db *sql.DB
}

// NewCampaignPostgres creates a new CampaignPostgres repository.
func NewCampaignPostgres(db *sql.DB) *CampaignPostgres {
	return &CampaignPostgres{db: db}
}

var _ repository.CampaignRepository = (*CampaignPostgres)(nil)

const campaignColumns = `id, user_id, name, description, status, subject_template, message_template,
		personalization_enabled, total_leads, messages_sent, responses_received, conversions,
		created_at, updated_at, started_at, completed_at`

func scanCampaign(row interface{ Scan(...any) error }) (*model.Campaign, error) {
	var c model.Campaign
	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Description,
		&c.Status,
		&c.SubjectTemplate,
		&c.MessageTemplate,
		&c.PersonalizationEnabled,
		&c.TotalLeads,
		&c.MessagesSent,
		&c.ResponsesReceived,
		&c.Conversions,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.StartedAt,
		&c.CompletedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

const messageColumns = `id, campaign_id, lead_id, subject, content, status, sent_at, opened_at, clicked_at, replied_at,
		error_message, retry_count, created_at, updated_at`

func scanMessage(row interface{ Scan(...any) error }) (*model.OutreachMessage, error) {
	var m model.OutreachMessage
	if err := row.Scan(
		&m.ID,
		&m.CampaignID,
		&m.LeadID,
		&m.Subject,
		&m.Content,
		&m.Status,
		&m.SentAt,
		&m.OpenedAt,
		&m.ClickedAt,
		&m.RepliedAt,
		&m.ErrorMessage,
		&m.RetryCount,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new campaign row and returns the stored record.
func (r *CampaignPostgres) Create(ctx context.Context, c *model.Campaign) (*model.Campaign, error) {
	const q = `
		INSERT INTO campaigns (id, user_id, name, description, status, subject_template, message_template,
			personalization_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING ` + campaignColumns
	row := r.db.QueryRowContext(ctx, q,
		c.ID,
		c.UserID,
		c.Name,
		c.Description,
		c.Status,
		c.SubjectTemplate,
		c.MessageTemplate,
		c.PersonalizationEnabled,
		c.CreatedAt,
	)
	return scanCampaign(row)
}

// FindByID fetches a single campaign by ID, scoped to the owner.
func (r *CampaignPostgres) FindByID(ctx context.Context, userID, id string) (*model.Campaign, error) {
	const q = `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1 AND user_id = $2`
	return scanCampaign(r.db.QueryRowContext(ctx, q, id, userID))
}

// List returns the owner's campaigns, newest first.
func (r *CampaignPostgres) List(ctx context.Context, userID string) ([]model.Campaign, error) {
	const q = `SELECT ` + campaignColumns + ` FROM campaigns WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Campaign, 0)
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// MarkStarted flips a campaign to active and records started_at once.
func (r *CampaignPostgres) MarkStarted(ctx context.Context, id string, at time.Time) error {
	const q = `
		UPDATE campaigns
		SET status = 'active', started_at = COALESCE(started_at, $2), updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q, id, at)
	return err
}

// AddCounters increments campaign counters by the given deltas.
func (r *CampaignPostgres) AddCounters(ctx context.Context, id string, totalLeads, messagesSent int) error {
	const q = `
		UPDATE campaigns
		SET total_leads = total_leads + $2, messages_sent = messages_sent + $3, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q, id, totalLeads, messagesSent)
	return err
}

// CreateMessage inserts an outreach message row and returns the stored record.
func (r *CampaignPostgres) CreateMessage(ctx context.Context, m *model.OutreachMessage) (*model.OutreachMessage, error) {
	const q = `
		INSERT INTO outreach_messages (id, campaign_id, lead_id, subject, content, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING ` + messageColumns
	row := r.db.QueryRowContext(ctx, q,
		m.ID,
		m.CampaignID,
		m.LeadID,
		m.Subject,
		m.Content,
		m.Status,
		m.CreatedAt,
	)
	return scanMessage(row)
}

// FindMessageLead fetches an outreach message joined with its target lead.
func (r *CampaignPostgres) FindMessageLead(ctx context.Context, id string) (*model.OutreachMessage, *model.Lead, error) {
	const q = `
		SELECT m.id, m.campaign_id, m.lead_id, m.subject, m.content, m.status, m.sent_at, m.opened_at, m.clicked_at, m.replied_at,
			m.error_message, m.retry_count, m.created_at, m.updated_at,
			l.id, l.user_id, l.name, l.email, l.username, l.profile_url, l.source, l.status, l.content,
			l.intent_score, l.quality_grade, l.interests, l.pain_points, l.summary, l.contact_method,
			l.contact_count, l.last_contacted, l.converted_at, l.conversion_value, l.created_at, l.updated_at
		FROM outreach_messages m
		JOIN leads l ON l.id = m.lead_id
		WHERE m.id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)

	var m model.OutreachMessage
	var l model.Lead
	var interests, painPoints []byte
	if err := row.Scan(
		&m.ID, &m.CampaignID, &m.LeadID, &m.Subject, &m.Content, &m.Status, &m.SentAt, &m.OpenedAt, &m.ClickedAt, &m.RepliedAt,
		&m.ErrorMessage, &m.RetryCount, &m.CreatedAt, &m.UpdatedAt,
		&l.ID, &l.UserID, &l.Name, &l.Email, &l.Username, &l.ProfileURL, &l.Source, &l.Status, &l.Content,
		&l.IntentScore, &l.QualityGrade, &interests, &painPoints, &l.Summary, &l.ContactMethod,
		&l.ContactCount, &l.LastContacted, &l.ConvertedAt, &l.ConversionValue, &l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, nil, err
	}
	if err := json.Unmarshal(interests, &l.Interests); err != nil {
		return nil, nil, fmt.Errorf("decode interests: %w", err)
	}
	if err := json.Unmarshal(painPoints, &l.PainPoints); err != nil {
		return nil, nil, fmt.Errorf("decode pain_points: %w", err)
	}
	return &m, &l, nil
}

// ListMessages returns a campaign's messages, newest first.
func (r *CampaignPostgres) ListMessages(ctx context.Context, campaignID string) ([]model.OutreachMessage, error) {
	const q = `SELECT ` + messageColumns + ` FROM outreach_messages WHERE campaign_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.OutreachMessage, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// FindMessageForOwner fetches an outreach message by ID, joined through the
// campaign to enforce ownership.
func (r *CampaignPostgres) FindMessageForOwner(ctx context.Context, userID, id string) (*model.OutreachMessage, error) {
	const q = `
		SELECT m.id, m.campaign_id, m.lead_id, m.subject, m.content, m.status, m.sent_at, m.opened_at, m.clicked_at, m.replied_at,
			m.error_message, m.retry_count, m.created_at, m.updated_at
		FROM outreach_messages m
		JOIN campaigns c ON c.id = m.campaign_id
		WHERE m.id = $1 AND c.user_id = $2
	`
	return scanMessage(r.db.QueryRowContext(ctx, q, id, userID))
}

// RecordMessageEvent stamps the event timestamp once. The IS NULL guard makes
// repeats no-ops; rows-affected tells the caller whether this was the first.
// Opened and clicked only move the status forward from sent; replied wins
// over both.
func (r *CampaignPostgres) RecordMessageEvent(ctx context.Context, id string, event model.MessageEvent, at time.Time) (bool, error) {
	var q string
	switch event {
	case model.EventOpened:
		q = `UPDATE outreach_messages
			SET opened_at = $2, status = CASE WHEN status = 'sent' THEN 'opened' ELSE status END, updated_at = now()
			WHERE id = $1 AND opened_at IS NULL`
	case model.EventClicked:
		q = `UPDATE outreach_messages
			SET clicked_at = $2, status = CASE WHEN status IN ('sent', 'opened') THEN 'clicked' ELSE status END, updated_at = now()
			WHERE id = $1 AND clicked_at IS NULL`
	case model.EventReplied:
		q = `UPDATE outreach_messages
			SET replied_at = $2, status = 'replied', updated_at = now()
			WHERE id = $1 AND replied_at IS NULL`
	default:
		return false, fmt.Errorf("unknown message event %q", event)
	}

	res, err := r.db.ExecContext(ctx, q, id, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddResponse increments a campaign's responses_received counter.
func (r *CampaignPostgres) AddResponse(ctx context.Context, campaignID string) error {
	const q = `UPDATE campaigns SET responses_received = responses_received + 1, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, campaignID)
	return err
}

// UpdateMessageStatus transitions a message. Sent transitions set sent_at;
// failed transitions record the error and bump retry_count.
func (r *CampaignPostgres) UpdateMessageStatus(ctx context.Context, id string, status model.MessageStatus, errMsg string) error {
	switch status {
	case model.MessageSent:
		const q = `UPDATE outreach_messages SET status = $2, sent_at = now(), error_message = '', updated_at = now() WHERE id = $1`
		_, err := r.db.ExecContext(ctx, q, id, status)
		return err
	case model.MessageFailed:
		const q = `UPDATE outreach_messages SET status = $2, error_message = $3, retry_count = retry_count + 1, updated_at = now() WHERE id = $1`
		_, err := r.db.ExecContext(ctx, q, id, status, errMsg)
		return err
	default:
		const q = `UPDATE outreach_messages SET status = $2, updated_at = now() WHERE id = $1`
		_, err := r.db.ExecContext(ctx, q, id, status)
		return err
	}
}
