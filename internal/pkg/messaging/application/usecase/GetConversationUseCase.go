package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

// GetConversationUseCase loads a single conversation for a participant.
type GetConversationUseCase struct {
	Conversations repository.ConversationRepository
}

func NewGetConversationUseCase(conversations repository.ConversationRepository) *GetConversationUseCase {
	return &GetConversationUseCase{Conversations: conversations}
}

func (uc *GetConversationUseCase) Execute(ctx context.Context, conversationID, userID uuid.UUID) (messaging.Conversation, error) {
	conv, err := uc.Conversations.GetByID(ctx, conversationID)
	if errors.Is(err, repository.ErrNotFound) {
		return messaging.Conversation{}, repository.ErrNotFound
	}
	if err != nil {
		return messaging.Conversation{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(userID) {
		return messaging.Conversation{}, messaging.ErrNotParticipant
	}
	return conv, nil
}
