package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
)

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	Create(ctx context.Context, m messaging.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (messaging.Message, error)

	// ListByConversation returns up to limit messages newest-first. A non-nil
	// cursor restricts results to messages strictly earlier than
	// (cursor.SentAt, cursor.ID) in conversation order.
	ListByConversation(ctx context.Context, conversationID uuid.UUID, limit int, before *messaging.Cursor) ([]messaging.Message, error)

	// MarkDelivered stamps delivered_at on messages where it is still null
	// and returns how many rows changed.
	MarkDelivered(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error)

	// MarkRead stamps read_at on messages where it is still null and returns
	// how many rows changed. Re-marking already-read messages is a no-op.
	MarkRead(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error)

	Delete(ctx context.Context, id uuid.UUID) error

	// CountUnread counts messages in the conversation that are still unread
	// and were not sent by userID.
	CountUnread(ctx context.Context, conversationID, userID uuid.UUID) (int64, error)
}
