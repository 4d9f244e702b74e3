package service

import (
	"context"
	"log/slog"
	"strings"

	"mailpipe/internal/model"
)

// Sender performs the actual delivery of one email. It is an opaque,
// possibly-failing collaborator from the worker's point of view.
type Sender interface {
	Send(ctx context.Context, msg *model.EmailMessage) error
}

// LogSender only logs the delivery. It is the default when no SMTP host is
// configured, useful for local runs and demos.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg *model.EmailMessage) error {
	s.log.Info("delivering email",
		slog.String("id", msg.ID),
		slog.String("to", strings.Join(msg.To, ",")),
		slog.String("subject", msg.Subject))
	return nil
}

var _ Sender = (*LogSender)(nil)
