package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"leadengine/internal/mailer"
	"leadengine/internal/model"
	"leadengine/internal/repository"
	"leadengine/internal/scoring"
	"leadengine/internal/whop"
)

var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrAPIKeyMissing    = errors.New("platform api key is not configured")
	ErrCommunityMissing = errors.New("community id is not configured")
	ErrMemberNoEmail    = errors.New("member has no email address")

	// ErrRetentionTooSoon enforces the anti-spam window between retention
	// messages to the same member.
	ErrRetentionTooSoon = errors.New("retention message sent recently")
)

// retentionWindow is the minimum gap between retention messages per member.
const retentionWindow = 7 * 24 * time.Hour

// SyncResult summarizes a platform membership sync.
type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

// ChurnSummary aggregates churn bands across the owner's members.
type ChurnSummary struct {
	Low      int            `json:"low"`
	Medium   int            `json:"medium"`
	High     int            `json:"high"`
	Critical int            `json:"critical"`
	AtRisk   []model.Member `json:"at_risk"`
}

// MemberService defines member sync, churn and retention use cases.
type MemberService interface {
	// List returns the owner's members matching the filter.
	List(ctx context.Context, userID string, f repository.MemberFilter) ([]model.Member, error)

	// Get returns a single member by ID.
	Get(ctx context.Context, userID, id string) (*model.Member, error)

	// Sync pulls memberships from the platform API, upserts them and
	// recomputes churn for every synced member.
	Sync(ctx context.Context, user *model.User) (*SyncResult, error)

	// ChurnSummary returns band counts and the at-risk members.
	ChurnSummary(ctx context.Context, userID string) (*ChurnSummary, error)

	// SendRetention composes and sends a win-back email to one member,
	// honoring the per-member anti-spam window.
	SendRetention(ctx context.Context, userID, memberID string) (*model.RetentionMessage, error)

	// ListRetentionMessages returns the retention history for one member.
	ListRetentionMessages(ctx context.Context, userID, memberID string) ([]model.RetentionMessage, error)
}

type memberService struct {
	members  repository.MemberRepository
	platform whop.MembershipAPI
	mail     mailer.Mailer
	now      func() time.Time
}

// NewMemberService constructs a new MemberService.
func NewMemberService(members repository.MemberRepository, platform whop.MembershipAPI, mail mailer.Mailer) MemberService {
	return &memberService{members: members, platform: platform, mail: mail, now: time.Now}
}

func (s *memberService) List(ctx context.Context, userID string, f repository.MemberFilter) ([]model.Member, error) {
	return s.members.List(ctx, userID, f)
}

func (s *memberService) Get(ctx context.Context, userID, id string) (*model.Member, error) {
	m, err := s.members.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *memberService) Sync(ctx context.Context, user *model.User) (*SyncResult, error) {
	if user.APIKey == "" {
		return nil, ErrAPIKeyMissing
	}
	if user.CommunityID == "" {
		return nil, ErrCommunityMissing
	}

	memberships, err := s.platform.ListMemberships(ctx, user.APIKey, user.CommunityID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	now := s.now().UTC()
	res := &SyncResult{Total: len(memberships)}
	for _, ms := range memberships {
		m := &model.Member{
			ID:               uuid.New().String(),
			UserID:           user.ID,
			PlatformMemberID: ms.ID,
			Email:            strings.ToLower(strings.TrimSpace(ms.Email)),
			Username:         ms.Username,
			FullName:         ms.Name,
			Status:           memberStatusFor(ms.Status),
			Tier:             ms.PlanName,
			MonthlyRevenue:   ms.RenewalPrice,
			LastSeen:         ms.LastActiveAt,
			JoinedAt:         ms.JoinedAt,
			CreatedAt:        now,
		}
		created, err := s.members.Upsert(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("upsert member %s: %w", ms.ID, err)
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}

		p := scoring.PredictChurn(m, now)
		if err := s.members.UpdateChurn(ctx, m.ID, repository.ChurnUpdate{
			Risk:          p.Risk,
			Score:         p.Score,
			DaysInactive:  p.DaysInactive,
			ActivityScore: p.ActivityScore,
		}); err != nil {
			return nil, fmt.Errorf("update churn for %s: %w", ms.ID, err)
		}
	}
	return res, nil
}

// memberStatusFor maps platform membership states onto member statuses.
func memberStatusFor(platformStatus string) model.MemberStatus {
	switch platformStatus {
	case "active", "trialing":
		return model.MemberActive
	case "past_due":
		return model.MemberPaused
	case "canceled", "expired":
		return model.MemberChurned
	default:
		return model.MemberInactive
	}
}

func (s *memberService) ChurnSummary(ctx context.Context, userID string) (*ChurnSummary, error) {
	members, err := s.members.List(ctx, userID, repository.MemberFilter{})
	if err != nil {
		return nil, err
	}

	sum := &ChurnSummary{AtRisk: []model.Member{}}
	for _, m := range members {
		switch m.ChurnRisk {
		case model.RiskLow:
			sum.Low++
		case model.RiskMedium:
			sum.Medium++
		case model.RiskHigh:
			sum.High++
		case model.RiskCritical:
			sum.Critical++
		}
		if m.ChurnRisk.AtRisk() {
			sum.AtRisk = append(sum.AtRisk, m)
		}
	}
	return sum, nil
}

func (s *memberService) SendRetention(ctx context.Context, userID, memberID string) (*model.RetentionMessage, error) {
	m, err := s.Get(ctx, userID, memberID)
	if err != nil {
		return nil, err
	}
	if m.Email == "" {
		return nil, ErrMemberNoEmail
	}

	now := s.now().UTC()
	if m.LastRetentionContact != nil && now.Sub(*m.LastRetentionContact) < retentionWindow {
		return nil, ErrRetentionTooSoon
	}

	msgType := scoring.RetentionMessageType(m.ChurnRisk, m.DaysInactive)
	subject, content := retentionCopy(msgType, m)

	extID, err := s.mail.Send(ctx, mailer.Email{To: m.Email, Subject: subject, Body: content})
	if err != nil {
		return nil, fmt.Errorf("send retention email: %w", err)
	}

	rm := &model.RetentionMessage{
		ID:                uuid.New().String(),
		MemberID:          m.ID,
		MessageType:       msgType,
		Subject:           subject,
		Content:           content,
		SentAt:            now,
		ExternalMessageID: extID,
		CreatedAt:         now,
	}
	stored, err := s.members.CreateRetentionMessage(ctx, rm)
	if err != nil {
		return nil, fmt.Errorf("record retention message: %w", err)
	}
	if err := s.members.RecordRetentionContact(ctx, m.ID); err != nil {
		return nil, fmt.Errorf("record retention contact: %w", err)
	}
	return stored, nil
}

// retentionCopy picks the subject and body for a win-back message.
func retentionCopy(msgType string, m *model.Member) (subject, content string) {
	name := m.FullName
	if name == "" {
		name = m.Username
	}
	if name == "" {
		name = "there"
	}

	switch msgType {
	case "personal_check_in":
		return "Checking in on you",
			fmt.Sprintf("Hey %s, it's been a while since we've seen you around. Is everything alright? Reply to this email and let me know how I can help.", name)
	case "coupon":
		return "A little something to welcome you back",
			fmt.Sprintf("Hey %s, we miss you! Here's a discount on your next month if you come back this week.", name)
	default:
		return "We miss you!",
			fmt.Sprintf("Hey %s, there's been a lot happening in the community since your last visit. Come take a look!", name)
	}
}

func (s *memberService) ListRetentionMessages(ctx context.Context, userID, memberID string) ([]model.RetentionMessage, error) {
	// Resolve through Get so another owner's member behaves as absent.
	m, err := s.Get(ctx, userID, memberID)
	if err != nil {
		return nil, err
	}
	return s.members.ListRetentionMessages(ctx, m.ID)
}
