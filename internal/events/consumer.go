package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Handler processes one decoded event.  Returning an error rejects the
// message without requeueing it.
type Handler func(ctx context.Context, ev Event) error

// Consume connects to url and feeds AuditQueue deliveries to h until ctx is
// cancelled.  Broker failures are retried with exponential backoff capped at
// 30s; only context cancellation ends the loop.
func Consume(ctx context.Context, url string, log *zap.Logger, h Handler) error {
	backoff := time.Second
	for {
		conn, err := dial(ctx, url)
		if err != nil {
			log.Warn("audit consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = consumeLoop(ctx, conn, log, h)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("audit consumer: loop ended; reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, log *zap.Logger, h Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("audit consumer: set QoS failed", zap.Error(err))
	}
	if err := declare(ch); err != nil {
		return err
	}
	msgs, err := ch.Consume(AuditQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := Dispatch(ctx, d.Body, h); err != nil {
				log.Error("audit consumer: handle message failed", zap.Error(err))
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Dispatch decodes body and hands it to h.
func Dispatch(ctx context.Context, body []byte, h Handler) error {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" {
		return errors.New("event without type")
	}
	return h(ctx, ev)
}

// LogHandler returns a Handler that writes every event as a structured log line.
func LogHandler(log *zap.Logger) Handler {
	return func(_ context.Context, ev Event) error {
		fields := []zap.Field{
			zap.String("type", ev.Type),
			zap.Uint64("entity_id", ev.EntityID),
			zap.String("actor", ev.Actor),
			zap.String("name", ev.Name),
			zap.Time("occurred_at", ev.OccurredAt),
		}
		if ev.Quantity != nil {
			fields = append(fields, zap.Int("quantity", *ev.Quantity))
		}
		log.Info("audit event", fields...)
		return nil
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
