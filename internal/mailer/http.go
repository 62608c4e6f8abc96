package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"leadengine/internal/config"
)

// httpMailer sends mail through a Resend-compatible REST API.
type httpMailer struct {
	baseURL string
	apiKey  string
	from    string
	http    *http.Client
}

// NewHTTP builds a Mailer backed by the provider's /emails endpoint.
func NewHTTP(cfg config.MailerConfig) (Mailer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("mailer api key is required")
	}
	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("mailer from address is required")
	}
	return &httpMailer{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		from:    cfg.FromEmail,
		http: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

type sendResponse struct {
	ID string `json:"id"`
}

// Send posts the email and returns the provider message ID.
func (m *httpMailer) Send(ctx context.Context, e Email) (string, error) {
	body, err := json.Marshal(sendRequest{
		From:    m.from,
		To:      []string{e.To},
		Subject: e.Subject,
		Text:    e.Body,
	})
	if err != nil {
		return "", fmt.Errorf("encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("mailer request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("mailer returned status %d", resp.StatusCode)
	}

	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode mailer response: %w", err)
	}
	return out.ID, nil
}
