package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

// ErrEmptyTitle rejects blank conversation titles.
var ErrEmptyTitle = errors.New("messaging use case: title cannot be empty")

// UpdateTitleInput renames the conversation on behalf of UpdatedByID.
type UpdateTitleInput struct {
	ConversationID uuid.UUID
	Title          string
	UpdatedByID    uuid.UUID
}

// UpdateTitleUseCase renames a conversation. Any participant may rename.
type UpdateTitleUseCase struct {
	Conversations repository.ConversationRepository
}

func NewUpdateTitleUseCase(conversations repository.ConversationRepository) *UpdateTitleUseCase {
	return &UpdateTitleUseCase{Conversations: conversations}
}

func (uc *UpdateTitleUseCase) Execute(ctx context.Context, in UpdateTitleInput) (messaging.Conversation, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return messaging.Conversation{}, ErrEmptyTitle
	}

	conv, err := uc.Conversations.GetByID(ctx, in.ConversationID)
	if errors.Is(err, repository.ErrNotFound) {
		return messaging.Conversation{}, repository.ErrNotFound
	}
	if err != nil {
		return messaging.Conversation{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(in.UpdatedByID) {
		return messaging.Conversation{}, messaging.ErrNotParticipant
	}

	if err := uc.Conversations.UpdateTitle(ctx, in.ConversationID, title); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return messaging.Conversation{}, repository.ErrNotFound
		}
		return messaging.Conversation{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	conv.Title = &title
	return conv, nil
}
