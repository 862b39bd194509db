// Package events carries audit events for inventory and user changes over
// RabbitMQ.  Publishing is best effort: the request that caused an event
// never fails because the broker is down.
package events

import (
	"context"
	"time"
)

// AuditQueue is the durable queue every event is routed to.
const AuditQueue = "inventory.audit"

// Event types.
const (
	UserRegistered = "user.registered"
	UserDeleted    = "user.deleted"
	ItemCreated    = "inventory.created"
	ItemUpdated    = "inventory.updated"
	ItemDeleted    = "inventory.deleted"
)

// Event is the JSON payload published for every state change.
type Event struct {
	Type       string    `json:"type"`
	EntityID   uint64    `json:"entity_id"`
	Actor      string    `json:"actor,omitempty"` // username of the principal, empty for self-registration
	Name       string    `json:"name,omitempty"`  // item name or username
	Quantity   *int      `json:"quantity,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers events.  Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop discards events; it is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
