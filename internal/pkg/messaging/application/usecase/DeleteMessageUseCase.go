package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

// DeleteMessageInput deletes MessageID on behalf of DeletedByID.
type DeleteMessageInput struct {
	MessageID   uuid.UUID
	DeletedByID uuid.UUID
}

// DeleteMessageUseCase removes a message. Only the sender may delete; anyone
// else gets ErrNotMessageSender regardless of conversation membership.
type DeleteMessageUseCase struct {
	Messages repository.MessageRepository
}

func NewDeleteMessageUseCase(messages repository.MessageRepository) *DeleteMessageUseCase {
	return &DeleteMessageUseCase{Messages: messages}
}

// Execute returns the deleted message so callers can notify its conversation.
func (uc *DeleteMessageUseCase) Execute(ctx context.Context, in DeleteMessageInput) (messaging.Message, error) {
	msg, err := uc.Messages.GetByID(ctx, in.MessageID)
	if errors.Is(err, repository.ErrNotFound) {
		return messaging.Message{}, repository.ErrNotFound
	}
	if err != nil {
		return messaging.Message{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if msg.SenderID != in.DeletedByID {
		return messaging.Message{}, messaging.ErrNotMessageSender
	}

	if err := uc.Messages.Delete(ctx, in.MessageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return messaging.Message{}, repository.ErrNotFound
		}
		return messaging.Message{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msg, nil
}
