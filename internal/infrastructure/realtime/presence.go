package realtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/idrissnt/SEMO-sub000/internal/infrastructure/cache/port"
)

// presenceTTL bounds how stale an "online" flag can get if a node dies
// without running teardown. Live connections refresh it from the ping loop.
const presenceTTL = 90 * time.Second

// Presence tracks which users currently hold an open connection to a
// conversation. It is best-effort: the cache is the source, so a cache outage
// degrades presence, never messaging.
type Presence struct {
	cache port.Cache
}

func NewPresence(cache port.Cache) *Presence {
	return &Presence{cache: cache}
}

func presenceKey(conversationID, userID uuid.UUID) string {
	return fmt.Sprintf("presence:conversation:%s:user:%s", conversationID, userID)
}

// MarkOnline flags the user online for the conversation.
func (p *Presence) MarkOnline(ctx context.Context, conversationID, userID uuid.UUID) error {
	return p.cache.Set(ctx, presenceKey(conversationID, userID), "1", presenceTTL)
}

// Refresh extends the online flag; callers invoke it on pong.
func (p *Presence) Refresh(ctx context.Context, conversationID, userID uuid.UUID) error {
	return p.cache.Set(ctx, presenceKey(conversationID, userID), "1", presenceTTL)
}

// MarkOffline clears the online flag.
func (p *Presence) MarkOffline(ctx context.Context, conversationID, userID uuid.UUID) error {
	_, err := p.cache.Del(ctx, presenceKey(conversationID, userID))
	return err
}

// IsOnline reports whether the user has a live connection to the conversation.
func (p *Presence) IsOnline(ctx context.Context, conversationID, userID uuid.UUID) (bool, error) {
	_, err := p.cache.Get(ctx, presenceKey(conversationID, userID))
	if errors.Is(err, port.ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
