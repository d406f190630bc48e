package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
)

// LoadHistoryInput requests a page of conversation history. BeforeID is an
// optional cursor: only messages strictly earlier than it are returned.
type LoadHistoryInput struct {
	ConversationID uuid.UUID
	Limit          int
	BeforeID       *uuid.UUID
}

// HistoryPage is one page of messages, newest first.
type HistoryPage struct {
	Messages   []messaging.Message
	NextCursor *uuid.UUID
	HasMore    bool
}

// LoadHistoryUseCase pages backward through a conversation using
// (sent_at, id) cursors. An unresolvable cursor id degrades to "no cursor"
// rather than erroring.
type LoadHistoryUseCase struct {
	Messages repository.MessageRepository
}

func NewLoadHistoryUseCase(messages repository.MessageRepository) *LoadHistoryUseCase {
	return &LoadHistoryUseCase{Messages: messages}
}

func (uc *LoadHistoryUseCase) Execute(ctx context.Context, in LoadHistoryInput) (HistoryPage, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	var cursor *messaging.Cursor
	if in.BeforeID != nil {
		msg, err := uc.Messages.GetByID(ctx, *in.BeforeID)
		switch {
		case err == nil && msg.ConversationID == in.ConversationID:
			c := messaging.CursorOf(msg)
			cursor = &c
		case errors.Is(err, repository.ErrNotFound):
			// Unknown cursor: fall through with no filter.
		case err != nil:
			return HistoryPage{}, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	// Request one extra row to learn whether an older page exists.
	msgs, err := uc.Messages.ListByConversation(ctx, in.ConversationID, limit+1, cursor)
	if err != nil {
		return HistoryPage{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	hasMore := len(msgs) > limit
	if hasMore {
		msgs = msgs[:limit]
	}

	page := HistoryPage{Messages: msgs, HasMore: hasMore}
	if hasMore && len(msgs) > 0 {
		oldest := msgs[len(msgs)-1].ID
		page.NextCursor = &oldest
	}
	return page, nil
}
