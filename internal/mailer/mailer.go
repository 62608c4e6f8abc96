package mailer

import "context"

// Email is a single transactional message.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers transactional email and returns the provider's message ID.
type Mailer interface {
	Send(ctx context.Context, e Email) (string, error)
}
