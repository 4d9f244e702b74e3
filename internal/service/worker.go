package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"mailpipe/internal/apperrors"
	"mailpipe/internal/cache"
	"mailpipe/internal/metrics"
	"mailpipe/internal/model"
	"mailpipe/internal/queue"
	"mailpipe/internal/storage"
)

// EmailWorker drives one received delivery through
// Received -> Processing -> {Sent, Failed} and decides its queue outcome.
// Redelivery can re-run the machine for the same id; every step is an
// insert-or-update, so repeats converge on one row. A repeated delivery
// attempt can still double-send; the store does not prevent that.
type EmailWorker struct {
	store  storage.EmailLogStorage
	sender Sender
	cache  cache.ResultCache // optional, may be nil
	log    *slog.Logger
}

func NewEmailWorker(
	store storage.EmailLogStorage,
	sender Sender,
	resultCache cache.ResultCache,
	log *slog.Logger,
) *EmailWorker {
	return &EmailWorker{
		store:  store,
		sender: sender,
		cache:  resultCache,
		log:    log,
	}
}

// Handle never lets one message take down the consumer loop: every failure
// maps to an explicit outcome.
func (w *EmailWorker) Handle(ctx context.Context, body []byte) queue.Outcome {
	var msg model.EmailMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		// No identifier to record against; reject without a status write.
		w.log.Error("rejecting undecodable message", slog.Any("error", apperrors.Decode(err)))
		metrics.EmailsProcessed.WithLabelValues("decode_error").Inc()
		return queue.Reject
	}
	if msg.ID == "" {
		w.log.Error("rejecting message without id", slog.Any("error", apperrors.ErrDecode))
		metrics.EmailsProcessed.WithLabelValues("decode_error").Inc()
		return queue.Reject
	}

	if _, err := w.store.Upsert(ctx, storage.UpsertParams{
		ID:     msg.ID,
		Status: model.StatusProcessing,
	}); err != nil {
		// The log store is the source of truth; an unrecorded attempt must
		// not proceed to delivery.
		w.log.Error("failed to record processing status",
			slog.String("id", msg.ID), slog.Any("error", err))
		return queue.Reject
	}

	start := time.Now()
	if err := w.sender.Send(ctx, &msg); err != nil {
		detail := err.Error()
		w.log.Error("delivery failed",
			slog.String("id", msg.ID), slog.Any("error", err))
		w.finish(ctx, msg.ID, model.StatusFailed, &detail)
		metrics.EmailsProcessed.WithLabelValues("failed").Inc()
		metrics.DeliveryDuration.WithLabelValues("failed").Observe(time.Since(start).Seconds())
		return queue.Reject
	}

	w.finish(ctx, msg.ID, model.StatusSent, nil)
	metrics.EmailsProcessed.WithLabelValues("sent").Inc()
	metrics.DeliveryDuration.WithLabelValues("sent").Observe(time.Since(start).Seconds())
	w.log.Info("email delivered",
		slog.String("id", msg.ID),
		slog.Duration("duration", time.Since(start)))
	return queue.Ack
}

// finish records the terminal status. A failed write here is logged and does
// not change the outcome already decided by the delivery attempt.
func (w *EmailWorker) finish(ctx context.Context, id string, status model.Status, detail *string) {
	rec, err := w.store.Upsert(ctx, storage.UpsertParams{
		ID:          id,
		Status:      status,
		ErrorDetail: detail,
	})
	if err != nil {
		w.log.Error("failed to record terminal status",
			slog.String("id", id),
			slog.String("status", string(status)),
			slog.Any("error", err))
		return
	}

	if w.cache != nil {
		if err := w.cache.StoreResult(ctx, rec); err != nil {
			w.log.Warn("result cache write failed", slog.String("id", id), slog.Any("error", err))
		}
	}
}
