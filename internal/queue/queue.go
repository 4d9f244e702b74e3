package queue

import (
	"context"

	"mailpipe/internal/model"
)

// Outcome is the consumer's explicit per-delivery decision. Exactly one
// outcome is applied per delivery; Reject never requeues.
type Outcome int

const (
	Ack Outcome = iota
	Reject
)

// Handler processes one raw delivery body and decides its outcome.
// It must contain its own failures; returning is the only way out.
type Handler func(ctx context.Context, body []byte) Outcome

// Publisher sends a message to the durable queue.
type Publisher interface {
	Publish(ctx context.Context, msg model.EmailMessage) error
}
