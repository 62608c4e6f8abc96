package postgres

import (
	"context"
	"database/sql"
	"time"

	"leadengine/internal/model"
	"leadengine/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, email, password_hash, full_name, community_id, community_name, api_key,
		is_active, is_verified, created_at, updated_at, last_login`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.CommunityID,
		&u.CommunityName,
		&u.APIKey,
		&u.IsActive,
		&u.IsVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.LastLogin,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (id, email, password_hash, full_name, community_name, is_active, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.FullName,
		u.CommunityName,
		u.IsActive,
		u.IsVerified,
		u.CreatedAt,
	)
	return scanUser(row)
}

// FindByID fetches a single user by ID.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// FindByEmail fetches a single user by email.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

// FindByCommunityID fetches the user owning the given platform community.
func (r *UserPostgres) FindByCommunityID(ctx context.Context, communityID string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE community_id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, communityID))
}

// Update persists profile fields and returns the stored record.
func (r *UserPostgres) Update(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		UPDATE users
		SET full_name = $2, community_id = $3, community_name = $4, api_key = $5, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q,
		u.ID,
		u.FullName,
		u.CommunityID,
		u.CommunityName,
		u.APIKey,
	)
	return scanUser(row)
}

// TouchLastLogin records a successful login time.
func (r *UserPostgres) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE users SET last_login = $2, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, at)
	return err
}

// ListActiveWithAPIKey returns active users with a configured platform API key.
func (r *UserPostgres) ListActiveWithAPIKey(ctx context.Context) ([]model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE is_active AND api_key <> '' ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
