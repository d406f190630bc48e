package adapter

import (
	"context"
	"sync"

	"github.com/idrissnt/SEMO-sub000/internal/infrastructure/bus/port"
)

// MemoryBus is an in-process port.Bus used by tests and single-node setups.
// It keeps a registry of groups to subscriber channels behind an RWMutex and
// mirrors the at-most-once, non-blocking delivery contract of the Redis bus.
type MemoryBus struct {
	mu     sync.RWMutex
	groups map[string]map[*memorySubscription]struct{}
	closed bool
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{groups: make(map[string]map[*memorySubscription]struct{})}
}

var _ port.Bus = (*MemoryBus)(nil)

func (b *MemoryBus) Publish(_ context.Context, group string, ev port.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.groups[group] {
		select {
		case sub.events <- ev:
		default:
			// Full subscriber buffer: drop rather than block the publisher.
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(_ context.Context, group string) (port.Subscription, error) {
	sub := &memorySubscription{
		bus:    b,
		group:  group,
		events: make(chan port.Event, 64),
	}

	b.mu.Lock()
	members := b.groups[group]
	if members == nil {
		members = make(map[*memorySubscription]struct{})
		b.groups[group] = members
	}
	members[sub] = struct{}{}
	b.mu.Unlock()

	return sub, nil
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for group, members := range b.groups {
		for sub := range members {
			sub.closeLocked()
		}
		delete(b.groups, group)
	}
	return nil
}

func (b *MemoryBus) remove(sub *memorySubscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	members := b.groups[sub.group]
	if _, ok := members[sub]; !ok {
		return
	}
	delete(members, sub)
	if len(members) == 0 {
		delete(b.groups, sub.group)
	}
	sub.closeLocked()
}

type memorySubscription struct {
	bus    *MemoryBus
	group  string
	events chan port.Event
	once   sync.Once
}

func (s *memorySubscription) Events() <-chan port.Event { return s.events }

func (s *memorySubscription) Close() error {
	s.bus.remove(s)
	return nil
}

// closeLocked must only run while the bus mutex is held, so no publish can
// race the channel close.
func (s *memorySubscription) closeLocked() {
	s.once.Do(func() { close(s.events) })
}
