package realtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/idrissnt/SEMO-sub000/internal/infrastructure/cache/port"
)

// mapCache is a minimal Cache for exercising Presence without Redis.
type mapCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newMapCache() *mapCache {
	return &mapCache{values: make(map[string]string)}
}

var _ port.Cache = (*mapCache)(nil)

func (c *mapCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return "", port.ErrMiss
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *mapCache) Del(_ context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, key := range keys {
		if _, ok := c.values[key]; ok {
			delete(c.values, key)
			n++
		}
	}
	return n, nil
}

func (c *mapCache) Ping(context.Context) error { return nil }
func (c *mapCache) Close() error               { return nil }

func TestPresenceLifecycle(t *testing.T) {
	p := NewPresence(newMapCache())
	ctx := context.Background()
	conversationID, userID := uuid.New(), uuid.New()

	online, err := p.IsOnline(ctx, conversationID, userID)
	require.NoError(t, err)
	require.False(t, online)

	require.NoError(t, p.MarkOnline(ctx, conversationID, userID))
	online, err = p.IsOnline(ctx, conversationID, userID)
	require.NoError(t, err)
	require.True(t, online)

	// Refresh keeps the flag alive; the flag itself is unchanged.
	require.NoError(t, p.Refresh(ctx, conversationID, userID))
	online, err = p.IsOnline(ctx, conversationID, userID)
	require.NoError(t, err)
	require.True(t, online)

	require.NoError(t, p.MarkOffline(ctx, conversationID, userID))
	online, err = p.IsOnline(ctx, conversationID, userID)
	require.NoError(t, err)
	require.False(t, online)
}

func TestPresenceIsPerUserAndConversation(t *testing.T) {
	p := NewPresence(newMapCache())
	ctx := context.Background()
	conversationID, userID := uuid.New(), uuid.New()

	require.NoError(t, p.MarkOnline(ctx, conversationID, userID))

	online, err := p.IsOnline(ctx, conversationID, uuid.New())
	require.NoError(t, err)
	require.False(t, online, "another user must not read as online")

	online, err = p.IsOnline(ctx, uuid.New(), userID)
	require.NoError(t, err)
	require.False(t, online, "the same user in another conversation must not read as online")
}
