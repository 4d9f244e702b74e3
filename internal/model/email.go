package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Status is the lifecycle state of an email send request.
type Status string

const (
	StatusQueued     Status = "Queued"
	StatusProcessing Status = "Processing"
	StatusSent       Status = "Sent"
	StatusFailed     Status = "Failed"
)

// DefaultPriority is assigned when the caller leaves priority unset.
const DefaultPriority = 5

// EmailMessage is both the enqueue request body and the queue wire format.
// ID doubles as the idempotency key across the store and the queue.
type EmailMessage struct {
	ID          string    `json:"id"`
	To          []string  `json:"to"`
	Subject     string    `json:"subject"`
	Body        *string   `json:"body,omitempty"`
	Priority    int       `json:"priority"`
	RequestedAt time.Time `json:"requested_at"`
}

// Validate checks the fields the dispatcher refuses to accept without.
// Only presence is checked: recipients are opaque strings to this pipeline,
// and what counts as a deliverable address is the mail transport's call.
func (m EmailMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.To,
			validation.Required.Error("'to' is required"),
			validation.Each(validation.Required),
		),
	)
}

// StatusRecord is one durable row of the send log, keyed by message id.
type StatusRecord struct {
	ID          string     `json:"id"`
	Status      Status     `json:"status"`
	Recipients  []string   `json:"recipients"`
	Subject     *string    `json:"subject,omitempty"`
	ErrorDetail *string    `json:"error_detail,omitempty"`
	RequestedAt *time.Time `json:"requested_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
