package repository

import (
	"context"

	"leadengine/internal/model"
)

// MemberFilter narrows member listings. Zero values mean no filtering.
type MemberFilter struct {
	Status    model.MemberStatus
	ChurnRisk model.ChurnRisk
}

// MemberRepository defines data access for community members.
type MemberRepository interface {
	// Upsert inserts a member or, when (user_id, platform_member_id) already
	// exists, updates the synced profile fields. m.ID is overwritten with
	// the canonical row id. Reports whether a new row was created.
	Upsert(ctx context.Context, m *model.Member) (created bool, err error)

	// FindByID returns a member by ID for the given owner.
	FindByID(ctx context.Context, userID, id string) (*model.Member, error)

	// FindByPlatformID returns the owner's member carrying the platform's
	// external member id.
	FindByPlatformID(ctx context.Context, userID, platformMemberID string) (*model.Member, error)

	// List returns the owner's members matching the filter.
	List(ctx context.Context, userID string, f MemberFilter) ([]model.Member, error)

	// UpdateChurn persists churn prediction fields for one member.
	UpdateChurn(ctx context.Context, id string, p ChurnUpdate) error

	// RecordRetentionContact bumps the retention counter and timestamp.
	RecordRetentionContact(ctx context.Context, memberID string) error

	// CreateRetentionMessage inserts a retention message record.
	CreateRetentionMessage(ctx context.Context, rm *model.RetentionMessage) (*model.RetentionMessage, error)

	// ListRetentionMessages returns retention messages for one member,
	// newest first.
	ListRetentionMessages(ctx context.Context, memberID string) ([]model.RetentionMessage, error)
}

// ChurnUpdate carries the recomputed churn fields for one member.
type ChurnUpdate struct {
	Risk          model.ChurnRisk
	Score         float64
	DaysInactive  int
	ActivityScore float64
}
