package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

// MarkMessagesReadInput identifies which messages a reader claims to have read.
type MarkMessagesReadInput struct {
	ConversationID uuid.UUID
	ReaderID       uuid.UUID
	MessageIDs     []uuid.UUID
}

// MarkMessagesReadUseCase stamps read_at on the given messages and advances
// the reader's last-read watermark on the conversation.
//
// Messages the reader sent themselves are filtered out, never erroring: a
// sender cannot read-receipt their own message. Messages already read are
// untouched by the store (read_at only transitions null -> set), so replays
// are harmless.
type MarkMessagesReadUseCase struct {
	Messages      repository.MessageRepository
	Conversations repository.ConversationRepository
}

func NewMarkMessagesReadUseCase(messages repository.MessageRepository, conversations repository.ConversationRepository) *MarkMessagesReadUseCase {
	return &MarkMessagesReadUseCase{Messages: messages, Conversations: conversations}
}

// Execute returns how many messages actually changed state.
func (uc *MarkMessagesReadUseCase) Execute(ctx context.Context, in MarkMessagesReadInput) (int64, error) {
	if len(in.MessageIDs) == 0 {
		return 0, nil
	}

	valid := make([]uuid.UUID, 0, len(in.MessageIDs))
	for _, id := range in.MessageIDs {
		msg, err := uc.Messages.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if msg.ConversationID != in.ConversationID {
			continue
		}
		if msg.SenderID == in.ReaderID {
			continue
		}
		valid = append(valid, id)
	}

	now := time.Now().UTC()

	var updated int64
	if len(valid) > 0 {
		var err error
		updated, err = uc.Messages.MarkRead(ctx, valid, now)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	if err := uc.Conversations.UpdateLastRead(ctx, in.ConversationID, in.ReaderID, now); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return updated, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return updated, nil
}
