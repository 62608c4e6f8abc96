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

func userRows(u *model.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "full_name", "community_id", "community_name",
		"api_key", "is_active", "is_verified", "created_at", "updated_at", "last_login",
	}).AddRow(u.ID, u.Email, u.PasswordHash, u.FullName, u.CommunityID, u.CommunityName,
		u.APIKey, u.IsActive, u.IsVerified, u.CreatedAt, u.UpdatedAt, u.LastLogin)
}

func TestUserPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	u := &model.User{
		ID:           "test-uuid",
		Email:        "owner@example.com",
		PasswordHash: "$2a$10$hash",
		FullName:     "Owner",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(u.ID, u.Email, u.PasswordHash, u.FullName, u.CommunityName, u.IsActive, u.IsVerified, u.CreatedAt).
		WillReturnRows(userRows(u))

	result, err := repo.Create(ctx, u)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, u.Email, result.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		now := time.Now().UTC()
		u := &model.User{ID: "test-id", Email: "owner@example.com", PasswordHash: "h", FullName: "Owner", IsActive: true, CreatedAt: now, UpdatedAt: now}

		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
			WithArgs("owner@example.com").
			WillReturnRows(userRows(u))

		got, err := repo.FindByEmail(ctx, "owner@example.com")

		assert.NoError(t, err)
		assert.NotNil(t, got)
		assert.Equal(t, "test-id", got.ID)
		assert.Nil(t, got.LastLogin)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
			WithArgs("missing@example.com").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.FindByEmail(ctx, "missing@example.com")

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, got)
	})
}

func TestUserPostgres_TouchLastLogin(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	now := time.Now().UTC()

	mock.ExpectExec("UPDATE users SET last_login").
		WithArgs("test-id", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.TouchLastLogin(context.Background(), "test-id", now)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_ListActiveWithAPIKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	now := time.Now().UTC()
	u := &model.User{ID: "test-id", Email: "owner@example.com", PasswordHash: "h", FullName: "Owner", APIKey: "key", IsActive: true, CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery("SELECT (.+) FROM users WHERE is_active").
		WillReturnRows(userRows(u))

	users, err := repo.ListActiveWithAPIKey(context.Background())

	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "key", users[0].APIKey)
}
