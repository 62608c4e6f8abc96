package whop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"leadengine/internal/config"
)

// Package whop wraps the community platform membership API. Each account
// owner supplies their own API key; the client itself only carries the base
// URL and the HTTP transport.

// ErrUnauthorized is returned when the platform rejects the API key.
var ErrUnauthorized = errors.New("platform rejected api key")

// Membership is the platform's view of a community member.
type Membership struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	Name         string     `json:"name"`
	Status       string     `json:"status"` // active, trialing, past_due, canceled
	PlanName     string     `json:"plan_name"`
	RenewalPrice float64    `json:"renewal_price"`
	LastActiveAt *time.Time `json:"last_active_at"`
	JoinedAt     time.Time  `json:"joined_at"`
}

// MembershipAPI lists memberships for a community. Satisfied by Client.
type MembershipAPI interface {
	ListMemberships(ctx context.Context, apiKey, communityID string) ([]Membership, error)
}

// Client is an HTTP client for the platform membership API.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ MembershipAPI = (*Client)(nil)

// NewClient builds a platform client with tracing on outbound requests.
func NewClient(cfg config.PlatformConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type membershipPage struct {
	Data       []Membership `json:"data"`
	Pagination struct {
		CurrentPage int `json:"current_page"`
		TotalPages  int `json:"total_pages"`
	} `json:"pagination"`
}

// ListMemberships fetches every membership in the community, following the
// platform's page-based pagination.
func (c *Client) ListMemberships(ctx context.Context, apiKey, communityID string) ([]Membership, error) {
	var all []Membership
	for page := 1; ; page++ {
		p, err := c.fetchPage(ctx, apiKey, communityID, page)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Data...)
		if p.Pagination.TotalPages == 0 || page >= p.Pagination.TotalPages {
			return all, nil
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, apiKey, communityID string, page int) (*membershipPage, error) {
	q := url.Values{}
	q.Set("community_id", communityID)
	q.Set("page", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/memberships?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("platform request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("platform returned status %d", resp.StatusCode)
	}

	var p membershipPage
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode memberships: %w", err)
	}
	return &p, nil
}
