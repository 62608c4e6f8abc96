package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"leadengine/internal/config"
)

func TestHTTPMailer_Send(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(sendResponse{ID: "msg_abc"})
	}))
	defer srv.Close()

	m, err := NewHTTP(config.MailerConfig{BaseURL: srv.URL, APIKey: "re_key", FromEmail: "noreply@leadengine.dev"})
	assert.NoError(t, err)

	id, err := m.Send(context.Background(), Email{To: "member@example.com", Subject: "We miss you", Body: "Come back!"})

	assert.NoError(t, err)
	assert.Equal(t, "msg_abc", id)
	assert.Equal(t, "noreply@leadengine.dev", got.From)
	assert.Equal(t, []string{"member@example.com"}, got.To)
	assert.Equal(t, "We miss you", got.Subject)
}

func TestHTTPMailer_SendProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	m, err := NewHTTP(config.MailerConfig{BaseURL: srv.URL, APIKey: "re_key", FromEmail: "noreply@leadengine.dev"})
	assert.NoError(t, err)

	_, err = m.Send(context.Background(), Email{To: "member@example.com"})

	assert.Error(t, err)
}

func TestNewHTTP_RequiresCredentials(t *testing.T) {
	_, err := NewHTTP(config.MailerConfig{BaseURL: "https://api.resend.com"})
	assert.Error(t, err)

	_, err = NewHTTP(config.MailerConfig{BaseURL: "https://api.resend.com", APIKey: "re_key"})
	assert.Error(t, err)
}
