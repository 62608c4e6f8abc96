package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"leadengine/internal/model"
	"leadengine/internal/repository"
)

var (
	ErrUnknownCommunity = errors.New("no account for community")
	ErrPaymentInvalid   = errors.New("payment event is missing required fields")
)

// platformFeeRate is the revenue share withheld per transaction.
const platformFeeRate = 0.30

// PaymentEvent is the decoded body of a billing webhook call.
type PaymentEvent struct {
	PaymentID   string  `json:"payment_id"`
	CommunityID string  `json:"community_id"`
	MemberID    string  `json:"member_id"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`   // new_member, retention, upgrade
	Status      string  `json:"status"` // pending, completed, failed, refunded
}

// BillingService records payment events against the owning account.
type BillingService interface {
	// RecordPayment attributes a payment to the community's owner and
	// stores the fee split.
	RecordPayment(ctx context.Context, ev PaymentEvent) (*model.RevenueTransaction, error)
}

type billingService struct {
	users   repository.UserRepository
	members repository.MemberRepository
	billing repository.BillingRepository
	now     func() time.Time
}

// NewBillingService constructs a new BillingService.
func NewBillingService(users repository.UserRepository, members repository.MemberRepository, billing repository.BillingRepository) BillingService {
	return &billingService{users: users, members: members, billing: billing, now: time.Now}
}

func (s *billingService) RecordPayment(ctx context.Context, ev PaymentEvent) (*model.RevenueTransaction, error) {
	if ev.PaymentID == "" || ev.CommunityID == "" || ev.Amount <= 0 {
		return nil, ErrPaymentInvalid
	}

	owner, err := s.users.FindByCommunityID(ctx, ev.CommunityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnknownCommunity
		}
		return nil, fmt.Errorf("resolve community owner: %w", err)
	}

	// The webhook carries the platform's member id, not ours. Payments for
	// members we have not synced yet are stored without an attribution.
	memberID := ""
	if ev.MemberID != "" {
		mem, err := s.members.FindByPlatformID(ctx, owner.ID, ev.MemberID)
		switch {
		case err == nil:
			memberID = mem.ID
		case errors.Is(err, sql.ErrNoRows):
			// leave unattributed
		default:
			return nil, fmt.Errorf("resolve member: %w", err)
		}
	}

	status := ev.Status
	if status == "" {
		status = "completed"
	}
	txType := ev.Type
	if txType == "" {
		txType = "new_member"
	}

	now := s.now().UTC()
	fee := ev.Amount * platformFeeRate
	tx := &model.RevenueTransaction{
		ID:                uuid.New().String(),
		UserID:            owner.ID,
		MemberID:          memberID,
		ExternalPaymentID: ev.PaymentID,
		GrossAmount:       ev.Amount,
		PlatformFee:       fee,
		ClientAmount:      ev.Amount - fee,
		TransactionType:   txType,
		Status:            status,
		ProcessedAt:       &now,
		CreatedAt:         now,
	}
	return s.billing.CreateTransaction(ctx, tx)
}
