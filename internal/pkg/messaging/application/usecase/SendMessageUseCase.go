package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

// SendMessageInput carries the data needed to persist a new message.
// SentAt and the message id are always assigned server-side.
type SendMessageInput struct {
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Content        string
	ContentType    messaging.ContentType
	Metadata       map[string]any
}

// SendMessageUseCase persists a message and bumps the conversation's
// last-message watermark. It does not broadcast; the caller publishes to the
// bus only after this use case succeeds.
type SendMessageUseCase struct {
	Messages      repository.MessageRepository
	Conversations repository.ConversationRepository
}

func NewSendMessageUseCase(messages repository.MessageRepository, conversations repository.ConversationRepository) *SendMessageUseCase {
	return &SendMessageUseCase{Messages: messages, Conversations: conversations}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (messaging.Message, error) {
	conv, err := uc.Conversations.GetByID(ctx, in.ConversationID)
	if errors.Is(err, repository.ErrNotFound) {
		return messaging.Message{}, messaging.ErrNotParticipant
	}
	if err != nil {
		return messaging.Message{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(in.SenderID) {
		return messaging.Message{}, messaging.ErrNotParticipant
	}

	msg, err := messaging.NewMessage(in.ConversationID, in.SenderID, in.Content, in.ContentType, in.Metadata)
	if err != nil {
		return messaging.Message{}, err
	}

	if err := uc.Messages.Create(ctx, msg); err != nil {
		return messaging.Message{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := uc.Conversations.UpdateLastMessageAt(ctx, in.ConversationID, msg.SentAt); err != nil {
		return messaging.Message{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msg, nil
}
