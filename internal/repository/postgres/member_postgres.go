package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"leadengine/internal/model"
	"leadengine/internal/repository"
)

// MemberPostgres is a PostgreSQL implementation of repository.MemberRepository.
type MemberPostgres struct {
	db *sql.DB
}

// NewMemberPostgres creates a new MemberPostgres repository.
func NewMemberPostgres(db *sql.DB) *MemberPostgres {
	return &MemberPostgres{db: db}
}

var _ repository.MemberRepository = (*MemberPostgres)(nil)

const memberColumns = `id, user_id, platform_member_id, email, username, full_name, status, tier,
		monthly_revenue, last_seen, last_message, total_messages, activity_score,
		churn_risk, churn_score, days_inactive, retention_messages_sent, last_retention_contact,
		joined_at, churned_at, created_at, updated_at`

func scanMember(row interface{ Scan(...any) error }) (*model.Member, error) {
	var m model.Member
	if err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.PlatformMemberID,
		&m.Email,
		&m.Username,
		&m.FullName,
		&m.Status,
		&m.Tier,
		&m.MonthlyRevenue,
		&m.LastSeen,
		&m.LastMessage,
		&m.TotalMessages,
		&m.ActivityScore,
		&m.ChurnRisk,
		&m.ChurnScore,
		&m.DaysInactive,
		&m.RetentionMessagesSent,
		&m.LastRetentionContact,
		&m.JoinedAt,
		&m.ChurnedAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// Upsert inserts a member or updates the synced profile fields on conflict.
// created reports whether a new row was inserted.
func (r *MemberPostgres) Upsert(ctx context.Context, m *model.Member) (bool, error) {
	const q = `
		INSERT INTO members (id, user_id, platform_member_id, email, username, full_name, status, tier,
			monthly_revenue, last_seen, last_message, total_messages, joined_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
		ON CONFLICT (user_id, platform_member_id) DO UPDATE
		SET email = EXCLUDED.email, username = EXCLUDED.username, full_name = EXCLUDED.full_name,
			status = EXCLUDED.status, tier = EXCLUDED.tier, monthly_revenue = EXCLUDED.monthly_revenue,
			last_seen = EXCLUDED.last_seen, last_message = EXCLUDED.last_message,
			total_messages = EXCLUDED.total_messages, updated_at = now()
		RETURNING id, (xmax = 0)
	`
	var created bool
	err := r.db.QueryRowContext(ctx, q,
		m.ID,
		m.UserID,
		m.PlatformMemberID,
		m.Email,
		m.Username,
		m.FullName,
		m.Status,
		m.Tier,
		m.MonthlyRevenue,
		m.LastSeen,
		m.LastMessage,
		m.TotalMessages,
		m.JoinedAt,
		m.CreatedAt,
	).Scan(&m.ID, &created)
	if err != nil {
		return false, err
	}
	return created, nil
}

// FindByID fetches a single member by ID, scoped to the owner.
func (r *MemberPostgres) FindByID(ctx context.Context, userID, id string) (*model.Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members WHERE id = $1 AND user_id = $2`
	return scanMember(r.db.QueryRowContext(ctx, q, id, userID))
}

// FindByPlatformID fetches the owner's member by the platform's external id.
func (r *MemberPostgres) FindByPlatformID(ctx context.Context, userID, platformMemberID string) (*model.Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members WHERE user_id = $1 AND platform_member_id = $2`
	return scanMember(r.db.QueryRowContext(ctx, q, userID, platformMemberID))
}

// List returns the owner's members matching the filter, most recently joined first.
func (r *MemberPostgres) List(ctx context.Context, userID string, f repository.MemberFilter) ([]model.Member, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.ChurnRisk != "" {
		args = append(args, f.ChurnRisk)
		where = append(where, fmt.Sprintf("churn_risk = $%d", len(args)))
	}

	q := `SELECT ` + memberColumns + ` FROM members WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY joined_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// UpdateChurn persists churn prediction fields for one member.
func (r *MemberPostgres) UpdateChurn(ctx context.Context, id string, p repository.ChurnUpdate) error {
	const q = `
		UPDATE members
		SET churn_risk = $2, churn_score = $3, days_inactive = $4, activity_score = $5, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q, id, p.Risk, p.Score, p.DaysInactive, p.ActivityScore)
	return err
}

// RecordRetentionContact bumps the retention counter and timestamp.
func (r *MemberPostgres) RecordRetentionContact(ctx context.Context, memberID string) error {
	const q = `
		UPDATE members
		SET retention_messages_sent = retention_messages_sent + 1,
			last_retention_contact = now(), updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q, memberID)
	return err
}

// CreateRetentionMessage inserts a retention message row and returns the stored record.
func (r *MemberPostgres) CreateRetentionMessage(ctx context.Context, rm *model.RetentionMessage) (*model.RetentionMessage, error) {
	const q = `
		INSERT INTO retention_messages (id, member_id, message_type, subject, content, sent_at, external_message_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, member_id, message_type, subject, content, sent_at, external_message_id,
			member_returned, return_date, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		rm.ID,
		rm.MemberID,
		rm.MessageType,
		rm.Subject,
		rm.Content,
		rm.SentAt,
		rm.ExternalMessageID,
		rm.CreatedAt,
	)
	var out model.RetentionMessage
	if err := row.Scan(
		&out.ID,
		&out.MemberID,
		&out.MessageType,
		&out.Subject,
		&out.Content,
		&out.SentAt,
		&out.ExternalMessageID,
		&out.MemberReturned,
		&out.ReturnDate,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRetentionMessages returns a member's retention messages, newest first.
func (r *MemberPostgres) ListRetentionMessages(ctx context.Context, memberID string) ([]model.RetentionMessage, error) {
	const q = `
		SELECT id, member_id, message_type, subject, content, sent_at, external_message_id,
			member_returned, return_date, created_at
		FROM retention_messages
		WHERE member_id = $1
		ORDER BY sent_at DESC
	`
	rows, err := r.db.QueryContext(ctx, q, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.RetentionMessage, 0)
	for rows.Next() {
		var rm model.RetentionMessage
		if err := rows.Scan(
			&rm.ID,
			&rm.MemberID,
			&rm.MessageType,
			&rm.Subject,
			&rm.Content,
			&rm.SentAt,
			&rm.ExternalMessageID,
			&rm.MemberReturned,
			&rm.ReturnDate,
			&rm.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, rm)
	}
	return items, rows.Err()
}
