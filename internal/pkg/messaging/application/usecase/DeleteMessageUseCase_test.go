package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/adapter"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

func TestDeleteMessageBySender(t *testing.T) {
	msgRepo := adapter.NewMemMessageRepository()
	sender := uuid.New()
	ctx := context.Background()

	m, err := messaging.NewMessage(uuid.New(), sender, "gone soon", messaging.ContentTypeText, nil)
	require.NoError(t, err)
	require.NoError(t, msgRepo.Create(ctx, m))

	uc := NewDeleteMessageUseCase(msgRepo)
	deleted, err := uc.Execute(ctx, DeleteMessageInput{MessageID: m.ID, DeletedByID: sender})
	require.NoError(t, err)
	require.Equal(t, m.ID, deleted.ID)
	require.Equal(t, m.ConversationID, deleted.ConversationID)

	_, err = msgRepo.GetByID(ctx, m.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteMessageRejectsNonSender(t *testing.T) {
	msgRepo := adapter.NewMemMessageRepository()
	sender := uuid.New()
	ctx := context.Background()

	m, err := messaging.NewMessage(uuid.New(), sender, "keep out", messaging.ContentTypeText, nil)
	require.NoError(t, err)
	require.NoError(t, msgRepo.Create(ctx, m))

	uc := NewDeleteMessageUseCase(msgRepo)
	_, err = uc.Execute(ctx, DeleteMessageInput{MessageID: m.ID, DeletedByID: uuid.New()})
	require.ErrorIs(t, err, messaging.ErrNotMessageSender)

	// The message survives the rejected attempt.
	got, err := msgRepo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, "keep out", got.Content)
}

func TestDeleteMessageUnknownID(t *testing.T) {
	uc := NewDeleteMessageUseCase(adapter.NewMemMessageRepository())
	_, err := uc.Execute(context.Background(), DeleteMessageInput{MessageID: uuid.New(), DeletedByID: uuid.New()})
	require.ErrorIs(t, err, repository.ErrNotFound)
}
