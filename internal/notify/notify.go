// Package notify delivers transactional email to students. Delivery is
// best-effort and never blocks the exam flow; callers enqueue messages
// and a worker drains the queue.
package notify

import "context"

// Message is one outbound email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Notifier sends a single message.
type Notifier interface {
	Send(ctx context.Context, m Message) error
}

// Nop discards every message. Used when no SMTP host is configured.
type Nop struct{}

func (Nop) Send(ctx context.Context, m Message) error { return nil }
