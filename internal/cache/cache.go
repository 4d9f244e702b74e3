package cache

import (
	"context"

	"mailpipe/internal/model"
)

// ResultCache holds terminal status records (Sent/Failed). Terminal records
// never change after being written, so serving them from cache cannot go
// stale against the store.
type ResultCache interface {
	StoreResult(ctx context.Context, rec model.StatusRecord) error
	// GetResult returns the cached record and whether it was present.
	GetResult(ctx context.Context, id string) (model.StatusRecord, bool, error)
}
