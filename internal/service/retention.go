package service

import (
	"context"
	"errors"
	"fmt"

	"leadengine/internal/model"
	"leadengine/internal/repository"
)

// SweepResult summarizes one retention sweep across all accounts.
type SweepResult struct {
	Users   int `json:"users"`
	Synced  int `json:"synced"`
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
}

// RetentionService runs the scheduled churn-prevention sweep.
type RetentionService interface {
	// Sweep refreshes membership data for every configured account and
	// sends retention messages to at-risk members. Per-member skips
	// (anti-spam window, missing email) are counted, not fatal.
	Sweep(ctx context.Context) (*SweepResult, error)
}

type retentionService struct {
	users   repository.UserRepository
	members MemberService
}

// NewRetentionService constructs a new RetentionService.
func NewRetentionService(users repository.UserRepository, members MemberService) RetentionService {
	return &retentionService{users: users, members: members}
}

func (s *retentionService) Sweep(ctx context.Context) (*SweepResult, error) {
	accounts, err := s.users.ListActiveWithAPIKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	res := &SweepResult{Users: len(accounts)}
	for i := range accounts {
		u := &accounts[i]
		if _, err := s.members.Sync(ctx, u); err != nil {
			// A broken API key for one account must not stall the sweep.
			res.Skipped++
			continue
		}
		res.Synced++

		atRisk, err := s.members.List(ctx, u.ID, repository.MemberFilter{ChurnRisk: model.RiskCritical})
		if err != nil {
			return nil, fmt.Errorf("list critical members for %s: %w", u.ID, err)
		}
		high, err := s.members.List(ctx, u.ID, repository.MemberFilter{ChurnRisk: model.RiskHigh})
		if err != nil {
			return nil, fmt.Errorf("list high-risk members for %s: %w", u.ID, err)
		}
		atRisk = append(atRisk, high...)

		for _, m := range atRisk {
			_, err := s.members.SendRetention(ctx, u.ID, m.ID)
			switch {
			case err == nil:
				res.Sent++
			case errors.Is(err, ErrRetentionTooSoon) || errors.Is(err, ErrMemberNoEmail):
				res.Skipped++
			default:
				return nil, fmt.Errorf("send retention to %s: %w", m.ID, err)
			}
		}
	}
	return res, nil
}
