package storage

import (
	"context"
	"time"

	"mailpipe/internal/model"
)

// UpsertParams carries one write against the send log. Status and ErrorDetail
// are always written (a nil ErrorDetail clears a stale one); Recipients,
// Subject and RequestedAt keep the stored value when nil.
type UpsertParams struct {
	ID          string
	Status      model.Status
	Recipients  []string
	Subject     *string
	RequestedAt *time.Time
	ErrorDetail *string
}

// EmailLogStorage defines durable operations on the send log.
type EmailLogStorage interface {
	// Upsert performs a single atomic insert-or-update keyed by id and
	// returns the row as written. Concurrent upserts for the same id must
	// serialize without duplicate rows; last commit wins.
	Upsert(ctx context.Context, p UpsertParams) (model.StatusRecord, error)
	Get(ctx context.Context, id string) (model.StatusRecord, error)
	ListRecent(ctx context.Context, limit int) ([]model.StatusRecord, error)
	Ping(ctx context.Context) error
}
