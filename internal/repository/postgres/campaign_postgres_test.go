package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"leadengine/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func campaignRows(c *model.Campaign) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "name", "description", "status", "subject_template", "message_template",
		"personalization_enabled", "total_leads", "messages_sent", "responses_received", "conversions",
		"created_at", "updated_at", "started_at", "completed_at",
	}).AddRow(c.ID, c.UserID, c.Name, c.Description, c.Status, c.SubjectTemplate, c.MessageTemplate,
		c.PersonalizationEnabled, c.TotalLeads, c.MessagesSent, c.ResponsesReceived, c.Conversions,
		c.CreatedAt, c.UpdatedAt, c.StartedAt, c.CompletedAt)
}

func TestCampaignPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCampaignPostgres(db)
	now := time.Now().UTC()
	c := &model.Campaign{
		ID:              "campaign-uuid",
		UserID:          "user-uuid",
		Name:            "Trade Signals",
		MessageTemplate: "Hey {{name}}",
		Status:          model.CampaignDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	mock.ExpectQuery("INSERT INTO campaigns").
		WillReturnRows(campaignRows(c))

	result, err := repo.Create(context.Background(), c)

	assert.NoError(t, err)
	assert.Equal(t, model.CampaignDraft, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignPostgres_MarkStarted(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCampaignPostgres(db)
	at := time.Now().UTC()

	mock.ExpectExec("UPDATE campaigns").
		WithArgs("campaign-uuid", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkStarted(context.Background(), "campaign-uuid", at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignPostgres_AddCounters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCampaignPostgres(db)

	mock.ExpectExec("UPDATE campaigns").
		WithArgs("campaign-uuid", 3, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.AddCounters(context.Background(), "campaign-uuid", 3, 0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignPostgres_FindMessageLead(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()

		repo := NewCampaignPostgres(db)
		now := time.Now().UTC()

		rows := sqlmock.NewRows([]string{
			"id", "campaign_id", "lead_id", "subject", "content", "status", "sent_at", "opened_at", "clicked_at", "replied_at",
			"error_message", "retry_count", "created_at", "updated_at",
			"id", "user_id", "name", "email", "username", "profile_url", "source", "status", "content",
			"intent_score", "quality_grade", "interests", "pain_points", "summary", "contact_method",
			"contact_count", "last_contacted", "converted_at", "conversion_value", "created_at", "updated_at",
		}).AddRow(
			"message-uuid", "campaign-uuid", "lead-uuid", "Quick question", "Hey Alice", model.MessageQueued, nil, nil, nil, nil,
			"", 0, now, now,
			"lead-uuid", "user-uuid", "Alice", "alice@example.com", "alice_t", "", model.SourceReddit, model.LeadNew, "",
			0.7, "B", []byte(`["trading"]`), []byte(`[]`), "", "",
			0, nil, nil, 0.0, now, now,
		)

		mock.ExpectQuery("FROM outreach_messages m").
			WithArgs("message-uuid").
			WillReturnRows(rows)

		msg, lead, err := repo.FindMessageLead(context.Background(), "message-uuid")

		assert.NoError(t, err)
		assert.Equal(t, "message-uuid", msg.ID)
		assert.Equal(t, model.MessageQueued, msg.Status)
		assert.Equal(t, "alice@example.com", lead.Email)
		assert.Equal(t, []string{"trading"}, lead.Interests)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()

		repo := NewCampaignPostgres(db)

		mock.ExpectQuery("FROM outreach_messages m").
			WithArgs("missing-uuid").
			WillReturnError(sql.ErrNoRows)

		_, _, err = repo.FindMessageLead(context.Background(), "missing-uuid")

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCampaignPostgres_UpdateMessageStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCampaignPostgres(db)

	t.Run("sent sets sent_at and clears the error", func(t *testing.T) {
		mock.ExpectExec("UPDATE outreach_messages SET status = \\$2, sent_at = now\\(\\)").
			WithArgs("message-uuid", model.MessageSent).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateMessageStatus(context.Background(), "message-uuid", model.MessageSent, ""))
	})

	t.Run("failed records the error and bumps retry_count", func(t *testing.T) {
		mock.ExpectExec("UPDATE outreach_messages SET status = \\$2, error_message = \\$3, retry_count").
			WithArgs("message-uuid", model.MessageFailed, "smtp timeout").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateMessageStatus(context.Background(), "message-uuid", model.MessageFailed, "smtp timeout"))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignPostgres_FindMessageForOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCampaignPostgres(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "campaign_id", "lead_id", "subject", "content", "status", "sent_at", "opened_at", "clicked_at", "replied_at",
		"error_message", "retry_count", "created_at", "updated_at",
	}).AddRow("message-uuid", "campaign-uuid", "lead-uuid", "Hi", "Hey Alice", model.MessageSent, &now, nil, nil, nil,
		"", 0, now, now)

	mock.ExpectQuery("JOIN campaigns c ON c.id = m.campaign_id").
		WithArgs("message-uuid", "user-uuid").
		WillReturnRows(rows)

	msg, err := repo.FindMessageForOwner(context.Background(), "user-uuid", "message-uuid")

	assert.NoError(t, err)
	assert.Equal(t, "campaign-uuid", msg.CampaignID)
	assert.Equal(t, model.MessageSent, msg.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignPostgres_RecordMessageEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCampaignPostgres(db)
	at := time.Now().UTC()

	t.Run("first reply updates the row", func(t *testing.T) {
		mock.ExpectExec("SET replied_at = \\$2, status = 'replied'").
			WithArgs("message-uuid", at).
			WillReturnResult(sqlmock.NewResult(0, 1))

		first, err := repo.RecordMessageEvent(context.Background(), "message-uuid", model.EventReplied, at)

		assert.NoError(t, err)
		assert.True(t, first)
	})

	t.Run("repeat reply touches nothing", func(t *testing.T) {
		mock.ExpectExec("SET replied_at = \\$2, status = 'replied'").
			WithArgs("message-uuid", at).
			WillReturnResult(sqlmock.NewResult(0, 0))

		first, err := repo.RecordMessageEvent(context.Background(), "message-uuid", model.EventReplied, at)

		assert.NoError(t, err)
		assert.False(t, first)
	})

	t.Run("opened stamps opened_at once", func(t *testing.T) {
		mock.ExpectExec("SET opened_at = \\$2").
			WithArgs("message-uuid", at).
			WillReturnResult(sqlmock.NewResult(0, 1))

		first, err := repo.RecordMessageEvent(context.Background(), "message-uuid", model.EventOpened, at)

		assert.NoError(t, err)
		assert.True(t, first)
	})

	t.Run("unknown event is rejected", func(t *testing.T) {
		_, err := repo.RecordMessageEvent(context.Background(), "message-uuid", model.MessageEvent("bounced"), at)
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignPostgres_AddResponse(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCampaignPostgres(db)

	mock.ExpectExec("SET responses_received = responses_received \\+ 1").
		WithArgs("campaign-uuid").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.AddResponse(context.Background(), "campaign-uuid"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
