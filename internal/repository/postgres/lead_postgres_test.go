package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"leadengine/internal/model"
	"leadengine/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func leadRows(l *model.Lead) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "name", "email", "username", "profile_url", "source", "status", "content",
		"intent_score", "quality_grade", "interests", "pain_points", "summary", "contact_method",
		"contact_count", "last_contacted", "converted_at", "conversion_value", "created_at", "updated_at",
	}).AddRow(l.ID, l.UserID, l.Name, l.Email, l.Username, l.ProfileURL, l.Source, l.Status, l.Content,
		l.IntentScore, l.QualityGrade, []byte(`["trading"]`), []byte(`[]`), l.Summary, l.ContactMethod,
		l.ContactCount, l.LastContacted, l.ConvertedAt, l.ConversionValue, l.CreatedAt, l.UpdatedAt)
}

func TestLeadPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewLeadPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	l := &model.Lead{
		ID:        "lead-uuid",
		UserID:    "user-uuid",
		Username:  "trader_joe",
		Source:    model.SourceReddit,
		Status:    model.LeadNew,
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectQuery("INSERT INTO leads").
		WillReturnRows(leadRows(l))

	result, err := repo.Create(ctx, l)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, []string{"trading"}, result.Interests)
	assert.Empty(t, result.PainPoints)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewLeadPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		now := time.Now().UTC()
		l := &model.Lead{ID: "lead-id", UserID: "user-id", Source: model.SourceManual, Status: model.LeadNew, CreatedAt: now, UpdatedAt: now}

		mock.ExpectQuery("SELECT (.+) FROM leads WHERE id = ?").
			WithArgs("lead-id", "user-id").
			WillReturnRows(leadRows(l))

		got, err := repo.FindByID(ctx, "user-id", "lead-id")

		assert.NoError(t, err)
		assert.Equal(t, "lead-id", got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM leads WHERE id = ?").
			WithArgs("missing", "user-id").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.FindByID(ctx, "user-id", "missing")

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, got)
	})
}

func TestLeadPostgres_FindDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewLeadPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("matches by email when present", func(t *testing.T) {
		l := &model.Lead{ID: "dup-id", UserID: "user-id", Email: "a@b.com", Source: model.SourceManual, Status: model.LeadNew, CreatedAt: now, UpdatedAt: now}

		mock.ExpectQuery("SELECT (.+) FROM leads WHERE user_id = (.+) AND email = ?").
			WithArgs("user-id", "a@b.com").
			WillReturnRows(leadRows(l))

		got, err := repo.FindDuplicate(ctx, "user-id", &model.Lead{Email: "a@b.com"})

		assert.NoError(t, err)
		assert.Equal(t, "dup-id", got.ID)
	})

	t.Run("matches by username and source without email", func(t *testing.T) {
		l := &model.Lead{ID: "dup-id", UserID: "user-id", Username: "joe", Source: model.SourceReddit, Status: model.LeadNew, CreatedAt: now, UpdatedAt: now}

		mock.ExpectQuery("SELECT (.+) FROM leads WHERE user_id = (.+) AND username = ?").
			WithArgs("user-id", "joe", model.SourceReddit).
			WillReturnRows(leadRows(l))

		got, err := repo.FindDuplicate(ctx, "user-id", &model.Lead{Username: "joe", Source: model.SourceReddit})

		assert.NoError(t, err)
		assert.Equal(t, "dup-id", got.ID)
	})
}

func TestLeadPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewLeadPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("unfiltered", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM leads").
			WithArgs("user-id").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		l := &model.Lead{ID: "lead-id", UserID: "user-id", Source: model.SourceManual, Status: model.LeadNew, CreatedAt: now, UpdatedAt: now}
		mock.ExpectQuery("SELECT (.+) FROM leads WHERE user_id = (.+) ORDER BY").
			WithArgs("user-id", 20, 0).
			WillReturnRows(leadRows(l))

		res, err := repo.List(ctx, "user-id", repository.LeadFilter{}, repository.PageQuery{Limit: 20, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Len(t, res.Items, 1)
	})

	t.Run("status filter is parameterized", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM leads").
			WithArgs("user-id", model.LeadConverted).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery("SELECT (.+) FROM leads WHERE user_id = (.+) status = (.+) ORDER BY").
			WithArgs("user-id", model.LeadConverted, 20, 0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		res, err := repo.List(ctx, "user-id", repository.LeadFilter{Status: model.LeadConverted}, repository.PageQuery{Limit: 20, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 0, res.Total)
		assert.Empty(t, res.Items)
	})
}

func TestLeadPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewLeadPostgres(db)
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM leads WHERE id = ?").
			WithArgs("lead-id", "user-id").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.Delete(ctx, "user-id", "lead-id")

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM leads WHERE id = ?").
			WithArgs("missing", "user-id").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.Delete(ctx, "user-id", "missing")

		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestLeadPostgres_RecordContact(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewLeadPostgres(db)
	at := time.Now().UTC()

	mock.ExpectExec("SET last_contacted = \\$2").
		WithArgs("lead-id", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.RecordContact(context.Background(), "lead-id", at))
	assert.NoError(t, mock.ExpectationsWereMet())
}
