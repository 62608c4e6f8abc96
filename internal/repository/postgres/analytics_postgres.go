package postgres

import (
	"context"
	"database/sql"
	"time"

	"leadengine/internal/model"
	"leadengine/internal/repository"
)

// AnalyticsPostgres runs the aggregate queries behind the analytics endpoints.
type AnalyticsPostgres struct {
	db *sql.DB
}

// NewAnalyticsPostgres creates a new AnalyticsPostgres repository.
func NewAnalyticsPostgres(db *sql.DB) *AnalyticsPostgres {
	return &AnalyticsPostgres{db: db}
}

var _ repository.AnalyticsRepository = (*AnalyticsPostgres)(nil)

// DashboardStats aggregates lead, outreach, member and revenue counts for
// one owner in a single round trip per domain table.
func (r *AnalyticsPostgres) DashboardStats(ctx context.Context, userID string, weekStart time.Time) (*repository.DashboardStats, error) {
	var s repository.DashboardStats

	const qLeads = `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE created_at >= $2),
			COUNT(*) FILTER (WHERE status = 'converted')
		FROM leads WHERE user_id = $1
	`
	if err := r.db.QueryRowContext(ctx, qLeads, userID, weekStart).
		Scan(&s.TotalLeads, &s.LeadsThisWeek, &s.LeadsConverted); err != nil {
		return nil, err
	}

	const qMessages = `
		SELECT COUNT(*) FILTER (WHERE om.sent_at IS NOT NULL),
			COUNT(*) FILTER (WHERE om.sent_at >= $2),
			COUNT(*) FILTER (WHERE om.replied_at IS NOT NULL)
		FROM outreach_messages om
		JOIN campaigns c ON c.id = om.campaign_id
		WHERE c.user_id = $1
	`
	if err := r.db.QueryRowContext(ctx, qMessages, userID, weekStart).
		Scan(&s.MessagesSent, &s.MessagesThisWeek, &s.MessagesReplied); err != nil {
		return nil, err
	}

	const qMembers = `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE churn_risk IN ('high', 'critical'))
		FROM members WHERE user_id = $1
	`
	if err := r.db.QueryRowContext(ctx, qMembers, userID).
		Scan(&s.TotalMembers, &s.AtRiskMembers); err != nil {
		return nil, err
	}

	const qRevenue = `
		SELECT COALESCE(SUM(gross_amount), 0),
			COALESCE(SUM(gross_amount) FILTER (WHERE created_at >= $2), 0),
			COALESCE(SUM(platform_fee), 0)
		FROM revenue_transactions WHERE user_id = $1
	`
	if err := r.db.QueryRowContext(ctx, qRevenue, userID, weekStart).
		Scan(&s.TotalRevenue, &s.RevenueThisWeek, &s.PlatformFees); err != nil {
		return nil, err
	}

	return &s, nil
}

// BillingPostgres records payment events from the billing webhook.
type BillingPostgres struct {
	db *sql.DB
}

// NewBillingPostgres creates a new BillingPostgres repository.
func NewBillingPostgres(db *sql.DB) *BillingPostgres {
	return &BillingPostgres{db: db}
}

var _ repository.BillingRepository = (*BillingPostgres)(nil)

// CreateTransaction inserts a revenue transaction row and returns the stored record.
func (r *BillingPostgres) CreateTransaction(ctx context.Context, t *model.RevenueTransaction) (*model.RevenueTransaction, error) {
	const q = `
		INSERT INTO revenue_transactions (id, user_id, member_id, external_payment_id, gross_amount,
			platform_fee, client_amount, transaction_type, status, processed_at, created_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, user_id, COALESCE(member_id::text, ''), external_payment_id, gross_amount,
			platform_fee, client_amount, transaction_type, status, processed_at, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		t.ID,
		t.UserID,
		t.MemberID,
		t.ExternalPaymentID,
		t.GrossAmount,
		t.PlatformFee,
		t.ClientAmount,
		t.TransactionType,
		t.Status,
		t.ProcessedAt,
		t.CreatedAt,
	)
	var out model.RevenueTransaction
	if err := row.Scan(
		&out.ID,
		&out.UserID,
		&out.MemberID,
		&out.ExternalPaymentID,
		&out.GrossAmount,
		&out.PlatformFee,
		&out.ClientAmount,
		&out.TransactionType,
		&out.Status,
		&out.ProcessedAt,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}
