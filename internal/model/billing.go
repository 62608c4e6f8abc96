package model

import "time"

// RevenueTransaction records a payment event received from the billing
// provider's webhook, split into platform fee and client share.
type RevenueTransaction struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	MemberID          string     `json:"member_id,omitempty"`
	ExternalPaymentID string     `json:"external_payment_id"`
	GrossAmount       float64    `json:"gross_amount"`
	PlatformFee       float64    `json:"platform_fee"`
	ClientAmount      float64    `json:"client_amount"`
	TransactionType   string     `json:"transaction_type"` // new_member, retention, upgrade
	Status            string     `json:"status"`           // pending, completed, failed, refunded
	ProcessedAt       *time.Time `json:"processed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}
