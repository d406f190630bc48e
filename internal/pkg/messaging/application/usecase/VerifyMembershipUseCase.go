package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

// VerifyMembershipUseCase confirms a user belongs to a conversation before the
// gateway joins them to the broadcast group. A missing conversation and a
// non-member look identical to the caller.
type VerifyMembershipUseCase struct {
	Conversations repository.ConversationRepository
}

func NewVerifyMembershipUseCase(conversations repository.ConversationRepository) *VerifyMembershipUseCase {
	return &VerifyMembershipUseCase{Conversations: conversations}
}

func (uc *VerifyMembershipUseCase) Execute(ctx context.Context, conversationID, userID uuid.UUID) error {
	ok, err := uc.Conversations.IsParticipant(ctx, conversationID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return messaging.ErrNotParticipant
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return messaging.ErrNotParticipant
	}
	return nil
}
