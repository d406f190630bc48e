package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

// ListConversationsUseCase returns the conversations a user participates in,
// most recent activity first.
type ListConversationsUseCase struct {
	Conversations repository.ConversationRepository
}

func NewListConversationsUseCase(conversations repository.ConversationRepository) *ListConversationsUseCase {
	return &ListConversationsUseCase{Conversations: conversations}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, userID uuid.UUID, limit, offset int) ([]messaging.Conversation, error) {
	convs, err := uc.Conversations.ListByParticipant(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return convs, nil
}
