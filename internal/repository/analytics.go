package repository

import (
	"context"
	"time"

	"leadengine/internal/model"
)

// DashboardStats holds the aggregate counts backing the dashboard summary.
type DashboardStats struct {
	TotalLeads       int
	LeadsThisWeek    int
	LeadsConverted   int
	MessagesSent     int
	MessagesThisWeek int
	MessagesReplied  int
	TotalMembers     int
	AtRiskMembers    int
	TotalRevenue     float64
	RevenueThisWeek  float64
	PlatformFees     float64
}

// AnalyticsRepository runs the aggregate queries behind the analytics
// endpoints. Read-only.
type AnalyticsRepository interface {
	// DashboardStats aggregates lead, outreach, member and revenue counts
	// for one owner. weekStart bounds the "this week" buckets.
	DashboardStats(ctx context.Context, userID string, weekStart time.Time) (*DashboardStats, error)
}

// BillingRepository records payment events from the billing webhook.
type BillingRepository interface {
	// CreateTransaction inserts a revenue transaction and returns the
	// stored row.
	CreateTransaction(ctx context.Context, t *model.RevenueTransaction) (*model.RevenueTransaction, error)
}
