package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"mailpipe/internal/apperrors"
	"mailpipe/internal/model"
)

// AMQPQueue wraps one long-lived connection and channel to the broker.
// The queue is declared durable so persistent messages survive a broker
// restart.
type AMQPQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	name string
	log  *slog.Logger
}

func Dial(url, name string, log *slog.Logger) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", name, err)
	}

	return &AMQPQueue{conn: conn, ch: ch, name: name, log: log}, nil
}

func (q *AMQPQueue) Close() {
	if err := q.ch.Close(); err != nil {
		q.log.Warn("failed to close channel", slog.Any("error", err))
	}
	if err := q.conn.Close(); err != nil {
		q.log.Warn("failed to close connection", slog.Any("error", err))
	}
}

// Publish sends the message marked persistent, with the email id as the
// broker-level message id and the publish time as the timestamp (epoch
// seconds on the wire).
func (q *AMQPQueue) Publish(ctx context.Context, msg model.EmailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return apperrors.Publish(fmt.Errorf("marshal %s: %w", msg.ID, err))
	}

	err = q.ch.PublishWithContext(ctx, "", q.name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return apperrors.Publish(fmt.Errorf("publish %s to %s: %w", msg.ID, q.name, err))
	}

	q.log.Info("message published",
		slog.String("queue", q.name),
		slog.String("id", msg.ID))
	return nil
}

// Consume receives deliveries with at most prefetch unacknowledged messages
// outstanding and runs the handler for each in its own goroutine; the
// prefetch window is the only concurrency bound. It blocks until the context
// is cancelled or the delivery channel closes, draining in-flight handlers
// before returning.
func (q *AMQPQueue) Consume(ctx context.Context, prefetch int, handle Handler) error {
	if err := q.ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}

	deliveries, err := q.ch.Consume(q.name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	q.log.Info("consumer started",
		slog.String("queue", q.name),
		slog.Int("prefetch", prefetch))

	var wg sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			q.log.Info("context cancelled, draining in-flight deliveries")
			wg.Wait()
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				wg.Wait()
				return errors.New("delivery channel closed")
			}
			wg.Add(1)
			go func(d amqp.Delivery) {
				defer wg.Done()
				// A handler in flight finishes its store writes and its
				// ack/reject even while the loop is shutting down.
				q.settle(d, handle(context.WithoutCancel(ctx), d.Body))
			}(d)
		}
	}
}

// settle applies the handler's decision to the broker exactly once.
func (q *AMQPQueue) settle(d amqp.Delivery, outcome Outcome) {
	switch outcome {
	case Ack:
		if err := d.Ack(false); err != nil {
			q.log.Error("failed to ack delivery",
				slog.String("message_id", d.MessageId),
				slog.Any("error", err))
		}
	default:
		if err := d.Nack(false, false); err != nil {
			q.log.Error("failed to reject delivery",
				slog.String("message_id", d.MessageId),
				slog.Any("error", err))
		}
	}
}

var _ Publisher = (*AMQPQueue)(nil)
