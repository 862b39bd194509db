package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher publishes events to AuditQueue over one long-lived
// connection.  amqp channels are not safe for concurrent use, so each
// Publish opens its own channel; mu guards only the conn field.
type AMQPPublisher struct {
	url  string
	mu   sync.Mutex
	conn *amqp.Connection
}

// dialTimeout bounds connect plus handshake when the caller's context has no
// earlier deadline.
const dialTimeout = 5 * time.Second

// NewAMQPPublisher dials url and declares the audit queue.
func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url}
	conn, err := dial(context.Background(), url)
	if err != nil {
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// dial connects and declares the queue.  The TCP connect honours ctx and the
// AMQP handshake must finish before ctx's deadline (or dialTimeout).
func dial(ctx context.Context, url string) (*amqp.Connection, error) {
	deadline := time.Now().Add(dialTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial: func(network, addr string) (net.Conn, error) {
			d := net.Dialer{Deadline: deadline}
			c, err := d.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			// amqp clears the deadline once the handshake completes.
			if err := c.SetDeadline(deadline); err != nil {
				_ = c.Close()
				return nil, err
			}
			return c, nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()
	if err := declare(ch); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// connection returns the live connection, re-dialing without holding mu so a
// slow broker only delays the caller whose context allows it.
func (p *AMQPPublisher) connection(ctx context.Context) (*amqp.Connection, error) {
	p.mu.Lock()
	conn := p.conn
	p.mu.Unlock()
	if conn != nil && !conn.IsClosed() {
		return conn, nil
	}

	fresh, err := dial(ctx, p.url)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil && !p.conn.IsClosed() {
		// Another publisher reconnected first.
		_ = fresh.Close()
		return p.conn, nil
	}
	p.conn = fresh
	return fresh, nil
}

// Publish marshals ev and sends it as a persistent message on its own
// channel.  A dropped connection is re-dialed within ctx.
func (p *AMQPPublisher) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	conn, err := p.connection(ctx)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	return ch.PublishWithContext(ctx,
		"",         // default exchange
		AuditQueue, // routing key = queue name
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent, // store on disk
			Timestamp:    time.Now().UTC(),
			Type:         ev.Type,
			Body:         body,
		})
}

// Close closes the underlying connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

// declare makes sure the durable audit queue exists (idempotent).
func declare(ch *amqp.Channel) error {
	if _, err := ch.QueueDeclare(
		AuditQueue, // name
		true,       // durable
		false,      // autoDelete
		false,      // exclusive
		false,      // noWait
		nil,        // args
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	return nil
}
