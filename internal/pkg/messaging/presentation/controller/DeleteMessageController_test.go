package controller

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	busadapter "github.com/idrissnt/SEMO-sub000/internal/infrastructure/bus/adapter"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/application/usecase"
	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/adapter"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/presentation/ws"
)

func TestDeleteMessagePublishesToGroup(t *testing.T) {
	bus := busadapter.NewMemoryBus()
	defer bus.Close()
	msgRepo := adapter.NewMemMessageRepository()
	ctx := context.Background()

	sender := uuid.New()
	m, err := messaging.NewMessage(uuid.New(), sender, "delete me", messaging.ContentTypeText, nil)
	require.NoError(t, err)
	require.NoError(t, msgRepo.Create(ctx, m))

	sub, err := bus.Subscribe(ctx, ws.GroupName(m.ConversationID))
	require.NoError(t, err)
	defer sub.Close()

	ctl := &DeleteMessageController{
		UC:  usecase.NewDeleteMessageUseCase(msgRepo),
		Bus: bus,
		Log: zerolog.Nop(),
	}

	deleted, err := ctl.UC.Execute(ctx, usecase.DeleteMessageInput{MessageID: m.ID, DeletedByID: sender})
	require.NoError(t, err)
	ctl.publishDeleted(ctx, deleted)

	select {
	case ev := <-sub.Events():
		require.Equal(t, ws.EventMessageDeleted, ev.Type)
		var data struct {
			MessageID      string `json:"message_id"`
			ConversationID string `json:"conversation_id"`
			DeletedBy      string `json:"deleted_by"`
		}
		require.NoError(t, json.Unmarshal(ev.Data, &data))
		require.Equal(t, m.ID.String(), data.MessageID)
		require.Equal(t, m.ConversationID.String(), data.ConversationID)
		require.Equal(t, sender.String(), data.DeletedBy)
	case <-time.After(2 * time.Second):
		t.Fatal("no deletion event delivered to the group")
	}
}
