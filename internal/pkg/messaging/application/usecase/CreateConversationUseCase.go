package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

// CreateConversationInput carries the data to open a new conversation.
type CreateConversationInput struct {
	Type         messaging.ConversationType
	Participants []uuid.UUID
	Title        *string
	Metadata     map[string]any
}

// CreateConversationUseCase creates a conversation. For direct conversations
// an existing thread between the two users is returned instead of creating a
// duplicate.
type CreateConversationUseCase struct {
	Conversations repository.ConversationRepository
}

func NewCreateConversationUseCase(conversations repository.ConversationRepository) *CreateConversationUseCase {
	return &CreateConversationUseCase{Conversations: conversations}
}

func (uc *CreateConversationUseCase) Execute(ctx context.Context, in CreateConversationInput) (messaging.Conversation, error) {
	if in.Type == messaging.ConversationTypeDirect && len(in.Participants) == 2 {
		existing, err := uc.Conversations.GetDirectBetween(ctx, in.Participants[0], in.Participants[1])
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return messaging.Conversation{}, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	conv, err := messaging.NewConversation(in.Type, in.Participants, in.Title, in.Metadata)
	if err != nil {
		return messaging.Conversation{}, err
	}

	if err := uc.Conversations.Create(ctx, conv); err != nil {
		return messaging.Conversation{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return conv, nil
}
