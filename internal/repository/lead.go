package repository

import (
	"context"
	"time"

	"leadengine/internal/model"
)

// LeadFilter narrows lead listings. Zero values mean no filtering.
type LeadFilter struct {
	Status       model.LeadStatus
	Source       model.LeadSource
	QualityGrade string
}

// LeadRepository defines data access for leads. All operations are scoped to
// the owning user; a lead belonging to another user behaves as absent.
type LeadRepository interface {
	// Create inserts a new lead record and returns the stored row.
	Create(ctx context.Context, l *model.Lead) (*model.Lead, error)

	// FindByID returns a lead by ID for the given owner.
	FindByID(ctx context.Context, userID, id string) (*model.Lead, error)

	// FindDuplicate returns an existing lead matching the duplicate rule:
	// same email, or same username+source when no email is present.
	// Returns sql.ErrNoRows via the driver when none matches.
	FindDuplicate(ctx context.Context, userID string, l *model.Lead) (*model.Lead, error)

	// List returns a filtered, paginated list of the owner's leads plus the
	// total row count for the filter.
	List(ctx context.Context, userID string, f LeadFilter, pq PageQuery) (*PageResult[model.Lead], error)

	// ListAll returns every lead belonging to the owner, newest first.
	// Used by CSV export.
	ListAll(ctx context.Context, userID string) ([]model.Lead, error)

	// Update persists mutable lead fields and returns the stored row.
	Update(ctx context.Context, l *model.Lead) (*model.Lead, error)

	// RecordContact stamps last_contacted, bumps contact_count, and moves a
	// fresh lead to contacted. Other statuses are left untouched.
	RecordContact(ctx context.Context, id string, at time.Time) error

	// Delete removes an owner's lead by ID. Reports whether a row was deleted.
	Delete(ctx context.Context, userID, id string) (bool, error)
}
