package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

// AddParticipantInput adds UserID to the conversation on behalf of AddedByID.
type AddParticipantInput struct {
	ConversationID uuid.UUID
	UserID         uuid.UUID
	AddedByID      uuid.UUID
}

// AddParticipantUseCase adds a user to a group or task conversation. Only
// existing participants may add, and direct conversations are fixed.
type AddParticipantUseCase struct {
	Conversations repository.ConversationRepository
}

func NewAddParticipantUseCase(conversations repository.ConversationRepository) *AddParticipantUseCase {
	return &AddParticipantUseCase{Conversations: conversations}
}

func (uc *AddParticipantUseCase) Execute(ctx context.Context, in AddParticipantInput) (messaging.Conversation, error) {
	conv, err := uc.Conversations.GetByID(ctx, in.ConversationID)
	if errors.Is(err, repository.ErrNotFound) {
		return messaging.Conversation{}, repository.ErrNotFound
	}
	if err != nil {
		return messaging.Conversation{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if !conv.HasParticipant(in.AddedByID) {
		return messaging.Conversation{}, messaging.ErrNotParticipant
	}
	if err := conv.AddParticipant(in.UserID); err != nil {
		return messaging.Conversation{}, err
	}

	err = uc.Conversations.AddParticipant(ctx, messaging.Participant{
		ConversationID: in.ConversationID,
		UserID:         in.UserID,
		JoinedAt:       time.Now().UTC(),
	})
	if err != nil {
		return messaging.Conversation{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return conv, nil
}
