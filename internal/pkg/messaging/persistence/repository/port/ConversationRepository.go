package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
)

// ErrNotFound signals a missing record as distinct from a transient store
// failure. Adapters must translate their driver's no-rows error into it.
var ErrNotFound = errors.New("repository: not found")

// ConversationRepository defines persistence operations for conversations and
// their participant records.
type ConversationRepository interface {
	Create(ctx context.Context, c messaging.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (messaging.Conversation, error)

	// GetDirectBetween returns the existing direct conversation between the
	// two users, or ErrNotFound.
	GetDirectBetween(ctx context.Context, userID1, userID2 uuid.UUID) (messaging.Conversation, error)

	// GetByTask returns the conversation whose metadata links the task id,
	// or ErrNotFound.
	GetByTask(ctx context.Context, taskID uuid.UUID) (messaging.Conversation, error)

	// ListByParticipant returns conversations the user belongs to, newest
	// activity first.
	ListByParticipant(ctx context.Context, userID uuid.UUID, limit, offset int) ([]messaging.Conversation, error)

	AddParticipant(ctx context.Context, p messaging.Participant) error
	RemoveParticipant(ctx context.Context, conversationID, userID uuid.UUID) error
	IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error)

	// UpdateLastMessageAt bumps the conversation activity watermark.
	UpdateLastMessageAt(ctx context.Context, conversationID uuid.UUID, at time.Time) error

	// UpdateTitle replaces the conversation title, or ErrNotFound.
	UpdateTitle(ctx context.Context, conversationID uuid.UUID, title string) error

	// UpdateLastRead advances the participant's read watermark; it never
	// moves it backward.
	UpdateLastRead(ctx context.Context, conversationID, userID uuid.UUID, at time.Time) error
}
