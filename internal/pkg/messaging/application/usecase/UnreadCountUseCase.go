package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

// unreadScanLimit bounds the conversation walk when counting across all of a
// user's conversations.
const unreadScanLimit = 500

// UnreadCountInput counts unread messages for UserID. A nil ConversationID
// counts across every conversation the user participates in.
type UnreadCountInput struct {
	UserID         uuid.UUID
	ConversationID *uuid.UUID
}

// UnreadCountUseCase counts messages not yet read and not sent by the user.
type UnreadCountUseCase struct {
	Messages      repository.MessageRepository
	Conversations repository.ConversationRepository
}

func NewUnreadCountUseCase(messages repository.MessageRepository, conversations repository.ConversationRepository) *UnreadCountUseCase {
	return &UnreadCountUseCase{Messages: messages, Conversations: conversations}
}

func (uc *UnreadCountUseCase) Execute(ctx context.Context, in UnreadCountInput) (int64, error) {
	if in.ConversationID != nil {
		conv, err := uc.Conversations.GetByID(ctx, *in.ConversationID)
		if errors.Is(err, repository.ErrNotFound) {
			return 0, repository.ErrNotFound
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if !conv.HasParticipant(in.UserID) {
			return 0, messaging.ErrNotParticipant
		}
		count, err := uc.Messages.CountUnread(ctx, conv.ID, in.UserID)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		return count, nil
	}

	convs, err := uc.Conversations.ListByParticipant(ctx, in.UserID, unreadScanLimit, 0)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	var total int64
	for _, conv := range convs {
		count, err := uc.Messages.CountUnread(ctx, conv.ID, in.UserID)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		total += count
	}
	return total, nil
}
