package model

import "time"

// MemberStatus tracks membership lifecycle.
type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
	MemberChurned  MemberStatus = "churned"
	MemberPaused   MemberStatus = "paused"
)

// Valid reports whether s is a known member status.
func (s MemberStatus) Valid() bool {
	switch s {
	case MemberActive, MemberInactive, MemberChurned, MemberPaused:
		return true
	}
	return false
}

// ChurnRisk is the predicted risk band for a member leaving.
type ChurnRisk string

const (
	RiskLow      ChurnRisk = "low"
	RiskMedium   ChurnRisk = "medium"
	RiskHigh     ChurnRisk = "high"
	RiskCritical ChurnRisk = "critical"
)

// Valid reports whether r is a known churn risk band.
func (r ChurnRisk) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// AtRisk reports whether the band warrants retention outreach.
func (r ChurnRisk) AtRisk() bool {
	return r == RiskHigh || r == RiskCritical
}

// Member is a paying community member synced from the platform API.
type Member struct {
	ID                    string       `json:"id"`
	UserID                string       `json:"user_id"`
	PlatformMemberID      string       `json:"platform_member_id"`
	Email                 string       `json:"email,omitempty"`
	Username              string       `json:"username,omitempty"`
	FullName              string       `json:"full_name,omitempty"`
	Status                MemberStatus `json:"status"`
	Tier                  string       `json:"tier,omitempty"`
	MonthlyRevenue        float64      `json:"monthly_revenue,omitempty"`
	LastSeen              *time.Time   `json:"last_seen,omitempty"`
	LastMessage           *time.Time   `json:"last_message,omitempty"`
	TotalMessages         int          `json:"total_messages"`
	ActivityScore         float64      `json:"activity_score"` // 0-100
	ChurnRisk             ChurnRisk    `json:"churn_risk"`
	ChurnScore            float64      `json:"churn_score"` // 0-1
	DaysInactive          int          `json:"days_inactive"`
	RetentionMessagesSent int          `json:"retention_messages_sent"`
	LastRetentionContact  *time.Time   `json:"last_retention_contact,omitempty"`
	JoinedAt              time.Time    `json:"joined_at"`
	ChurnedAt             *time.Time   `json:"churned_at,omitempty"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

// RetentionMessage is a win-back message sent to an at-risk member.
type RetentionMessage struct {
	ID                string     `json:"id"`
	MemberID          string     `json:"member_id"`
	MessageType       string     `json:"message_type"` // reminder, coupon, personal_check_in
	Subject           string     `json:"subject,omitempty"`
	Content           string     `json:"content"`
	SentAt            time.Time  `json:"sent_at"`
	ExternalMessageID string     `json:"external_message_id,omitempty"`
	MemberReturned    *bool      `json:"member_returned,omitempty"`
	ReturnDate        *time.Time `json:"return_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}
