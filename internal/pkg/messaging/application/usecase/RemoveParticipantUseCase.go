package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

// RemoveParticipantInput removes UserID from the conversation on behalf of
// RemovedByID. Users may always remove themselves.
type RemoveParticipantInput struct {
	ConversationID uuid.UUID
	UserID         uuid.UUID
	RemovedByID    uuid.UUID
}

// RemoveParticipantUseCase removes a user from a group or task conversation.
// The domain rejects removals that would leave fewer than two participants,
// and the participant set is left unchanged in that case.
type RemoveParticipantUseCase struct {
	Conversations repository.ConversationRepository
}

func NewRemoveParticipantUseCase(conversations repository.ConversationRepository) *RemoveParticipantUseCase {
	return &RemoveParticipantUseCase{Conversations: conversations}
}

func (uc *RemoveParticipantUseCase) Execute(ctx context.Context, in RemoveParticipantInput) (messaging.Conversation, error) {
	conv, err := uc.Conversations.GetByID(ctx, in.ConversationID)
	if errors.Is(err, repository.ErrNotFound) {
		return messaging.Conversation{}, repository.ErrNotFound
	}
	if err != nil {
		return messaging.Conversation{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if !conv.HasParticipant(in.RemovedByID) && in.RemovedByID != in.UserID {
		return messaging.Conversation{}, messaging.ErrNotParticipant
	}
	if err := conv.RemoveParticipant(in.UserID); err != nil {
		return messaging.Conversation{}, err
	}

	if err := uc.Conversations.RemoveParticipant(ctx, in.ConversationID, in.UserID); err != nil {
		return messaging.Conversation{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return conv, nil
}
