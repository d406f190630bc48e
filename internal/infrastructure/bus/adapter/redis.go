package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/idrissnt/SEMO-sub000/internal/infrastructure/bus/port"
)

// RedisBus implements port.Bus on Redis pub/sub so that group membership
// survives across processes: every API node subscribed to a conversation's
// group receives the publish regardless of which node performed it.
type RedisBus struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewRedisBus connects to Redis and verifies connectivity with a ping.
func NewRedisBus(url string, log zerolog.Logger) (*RedisBus, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("bus: parse redis url: %w", err)
	}
	c := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("bus: ping: %w", err)
	}
	return &RedisBus{client: c, log: log}, nil
}

var _ port.Bus = (*RedisBus)(nil)

func (b *RedisBus) Publish(ctx context.Context, group string, ev port.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("bus: encode event: %w", err)
	}
	return b.client.Publish(ctx, group, payload).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, group string) (port.Subscription, error) {
	ps := b.client.Subscribe(ctx, group)
	// Force the SUBSCRIBE round-trip so a broken broker fails here, not on
	// first delivery.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("bus: subscribe %s: %w", group, err)
	}

	sub := &redisSubscription{
		pubsub: ps,
		events: make(chan port.Event, 64),
	}
	go sub.pump(b.log.With().Str("group", group).Logger())
	return sub, nil
}

func (b *RedisBus) Close() error {
	return b.client.Close()
}

type redisSubscription struct {
	pubsub *redis.PubSub
	events chan port.Event
}

func (s *redisSubscription) Events() <-chan port.Event { return s.events }

func (s *redisSubscription) Close() error {
	return s.pubsub.Close()
}

func (s *redisSubscription) pump(log zerolog.Logger) {
	defer close(s.events)
	ch := s.pubsub.Channel()
	for msg := range ch {
		var ev port.Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Warn().Err(err).Msg("dropping undecodable bus event")
			continue
		}
		select {
		case s.events <- ev:
		default:
			// Subscriber is not draining; at-most-once allows dropping.
			log.Warn().Str("event", ev.Type).Msg("subscriber buffer full, dropping event")
		}
	}
}
