package queue

import "context"

// Package queue contains the message-queue abstractions used to hand outreach
// sends off to the background worker.

// OutreachJob is the unit of work published when a campaign is dispatched.
// The worker loads the referenced outreach message and performs the send.
type OutreachJob struct {
	OutreachMessageID string `json:"outreach_message_id"`
}

// Publisher enqueues outreach jobs for asynchronous delivery.
type Publisher interface {
	Publish(ctx context.Context, job OutreachJob) error
	Close() error
}

// Consumer delivers outreach jobs to a handler until the context is canceled.
// A handler error requeues the job; on success the job is acknowledged.
type Consumer interface {
	Consume(ctx context.Context, handle func(context.Context, OutreachJob) error) error
	Close() error
}
