package port

import (
	"context"
	"encoding/json"
)

// Event is the unit carried by the broadcast bus. Type is a stable event name
// (e.g. "chat_message", "user_online"); Data is the already-encoded payload so
// the bus never needs to know about domain types.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Subscription is a live membership in one group. Events delivers everything
// published to the group after Subscribe returned; Close releases the
// membership and eventually closes the channel.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

// Bus fans a published event out to every subscriber of a group, including
// subscribers in other processes when the adapter is backed by an external
// broker. Delivery is at-most-once and best-effort: publishing to a group with
// no subscribers is a silent no-op, and a publish failure must never be
// treated as a rollback signal by callers.
type Bus interface {
	Publish(ctx context.Context, group string, ev Event) error
	Subscribe(ctx context.Context, group string) (Subscription, error)
	Close() error
}
