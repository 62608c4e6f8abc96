package repository

import (
	"context"
	"time"

	"leadengine/internal/model"
)

// UserRepository defines data access for user accounts using SQL queries only.
// No business logic here — strictly persistence operations.
type UserRepository interface {
	// Create inserts a new user record and returns the stored row.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByID returns a user by ID.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail returns a user by email address.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByCommunityID returns the user that owns the given platform
	// community. Used by the billing webhook to attribute payments.
	FindByCommunityID(ctx context.Context, communityID string) (*model.User, error)

	// Update persists profile fields (full_name, community_name, community_id,
	// api_key) and returns the stored row.
	Update(ctx context.Context, u *model.User) (*model.User, error)

	// TouchLastLogin records a successful login time.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	// ListActiveWithAPIKey returns active users that have a platform API key
	// configured. Used by the retention sweep.
	ListActiveWithAPIKey(ctx context.Context) ([]model.User, error)
}
