package service

import (
	"context"
	"time"

	"leadengine/internal/repository"
)

// Dashboard is the aggregate view backing the dashboard endpoint.
type Dashboard struct {
	TotalLeads       int     `json:"total_leads"`
	LeadsThisWeek    int     `json:"leads_this_week"`
	LeadsConverted   int     `json:"leads_converted"`
	ConversionRate   float64 `json:"conversion_rate"`
	MessagesSent     int     `json:"messages_sent"`
	MessagesThisWeek int     `json:"messages_this_week"`
	MessagesReplied  int     `json:"messages_replied"`
	ResponseRate     float64 `json:"response_rate"`
	TotalMembers     int     `json:"total_members"`
	AtRiskMembers    int     `json:"at_risk_members"`
	TotalRevenue     float64 `json:"total_revenue"`
	RevenueThisWeek  float64 `json:"revenue_this_week"`
	PlatformFees     float64 `json:"platform_fees"`
}

// AnalyticsService computes the dashboard aggregates.
type AnalyticsService interface {
	Dashboard(ctx context.Context, userID string) (*Dashboard, error)
}

type analyticsService struct {
	analytics repository.AnalyticsRepository
	now       func() time.Time
}

// NewAnalyticsService constructs a new AnalyticsService.
func NewAnalyticsService(analytics repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{analytics: analytics, now: time.Now}
}

func (s *analyticsService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	weekStart := s.now().UTC().AddDate(0, 0, -7)
	st, err := s.analytics.DashboardStats(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		TotalLeads:       st.TotalLeads,
		LeadsThisWeek:    st.LeadsThisWeek,
		LeadsConverted:   st.LeadsConverted,
		MessagesSent:     st.MessagesSent,
		MessagesThisWeek: st.MessagesThisWeek,
		MessagesReplied:  st.MessagesReplied,
		TotalMembers:     st.TotalMembers,
		AtRiskMembers:    st.AtRiskMembers,
		TotalRevenue:     st.TotalRevenue,
		RevenueThisWeek:  st.RevenueThisWeek,
		PlatformFees:     st.PlatformFees,
	}
	if st.TotalLeads > 0 {
		d.ConversionRate = float64(st.LeadsConverted) / float64(st.TotalLeads)
	}
	if st.MessagesSent > 0 {
		d.ResponseRate = float64(st.MessagesReplied) / float64(st.MessagesSent)
	}
	return d, nil
}
