package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mailpipe/internal/apperrors"
	"mailpipe/internal/cache"
	"mailpipe/internal/metrics"
	"mailpipe/internal/model"
	"mailpipe/internal/queue"
	"mailpipe/internal/storage"
)

// Accepted is the dispatcher's reply for a successfully enqueued request.
type Accepted struct {
	ID     string       `json:"id"`
	Status model.Status `json:"status"`
}

// DispatchService is the producer side of the pipeline plus the read paths
// that serve the API.
type DispatchService interface {
	Enqueue(ctx context.Context, msg *model.EmailMessage) (Accepted, error)
	Status(ctx context.Context, id string) (model.StatusRecord, error)
	Recent(ctx context.Context, take int) ([]model.StatusRecord, error)
}

type dispatchService struct {
	store storage.EmailLogStorage
	pub   queue.Publisher
	cache cache.ResultCache // optional, may be nil
	log   *slog.Logger
}

func NewDispatchService(
	store storage.EmailLogStorage,
	pub queue.Publisher,
	resultCache cache.ResultCache,
	log *slog.Logger,
) DispatchService {
	return &dispatchService{
		store: store,
		pub:   pub,
		cache: resultCache,
		log:   log,
	}
}

// Enqueue validates the request, fills in identity and defaults, records the
// Queued status, then publishes. The record is written before the publish on
// purpose: a Queued row with no queue message is a detectable anomaly, a
// queue message with no row would be invisible.
func (s *dispatchService) Enqueue(ctx context.Context, msg *model.EmailMessage) (Accepted, error) {
	if msg == nil {
		return Accepted{}, apperrors.NewValidation("body required")
	}
	if err := msg.Validate(); err != nil {
		return Accepted{}, apperrors.Validation(err)
	}

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.RequestedAt.IsZero() {
		msg.RequestedAt = time.Now().UTC()
	}
	if msg.Priority == 0 {
		msg.Priority = model.DefaultPriority
	}

	subject := msg.Subject
	requestedAt := msg.RequestedAt
	if _, err := s.store.Upsert(ctx, storage.UpsertParams{
		ID:          msg.ID,
		Status:      model.StatusQueued,
		Recipients:  msg.To,
		Subject:     &subject,
		RequestedAt: &requestedAt,
	}); err != nil {
		s.log.Error("failed to record queued status", slog.String("id", msg.ID), slog.Any("error", err))
		return Accepted{}, err
	}

	if err := s.pub.Publish(ctx, *msg); err != nil {
		// The Queued row now has no matching queue message. Surface the
		// failure instead of swallowing it; the orphan is detectable.
		s.log.Error("publish failed after status write", slog.String("id", msg.ID), slog.Any("error", err))
		return Accepted{}, err
	}

	metrics.EmailsEnqueued.Inc()
	s.log.Info("email enqueued", slog.String("id", msg.ID), slog.Int("recipients", len(msg.To)))

	return Accepted{ID: msg.ID, Status: model.StatusQueued}, nil
}

func (s *dispatchService) Status(ctx context.Context, id string) (model.StatusRecord, error) {
	if s.cache != nil {
		rec, ok, err := s.cache.GetResult(ctx, id)
		if err != nil {
			s.log.Warn("result cache read failed", slog.String("id", id), slog.Any("error", err))
		} else if ok {
			return rec, nil
		}
	}
	return s.store.Get(ctx, id)
}

func (s *dispatchService) Recent(ctx context.Context, take int) ([]model.StatusRecord, error) {
	return s.store.ListRecent(ctx, take)
}
