package ws

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
)

func TestHandleMessage(t *testing.T) {
	env := newTestEnv(t)
	sender, peer := uuid.New(), uuid.New()
	conv := env.seedConversation(t, sender, peer)

	senderSess, senderClient := env.newJoinedSession(t, sender, conv.ID)
	_, peerClient := env.newJoinedSession(t, peer, conv.ID)

	env.handlers.HandleMessage(context.Background(), senderSess,
		[]byte(`{"type":"message","content":"hello everyone"}`))

	// Both group members receive the echo, the sender included.
	for name, client := range map[string]*websocket.Conn{"sender": senderClient, "peer": peerClient} {
		frame := readFrame(t, client, "message")
		var payload messagePayload
		decodeData(t, frame, &payload)
		require.Equal(t, "hello everyone", payload.Content, name)
		require.Equal(t, sender.String(), payload.SenderID, name)
		require.Equal(t, conv.ID.String(), payload.ConversationID, name)
	}

	// The message is durable and the conversation watermark moved.
	msgs, err := env.msgRepo.ListByConversation(context.Background(), conv.ID, 10, nil)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	stored, err := env.convRepo.GetByID(context.Background(), conv.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastMessageAt)
	require.True(t, stored.LastMessageAt.Equal(msgs[0].SentAt))
}

func TestHandleMessageEmptyContent(t *testing.T) {
	env := newTestEnv(t)
	sender := uuid.New()
	conv := env.seedConversation(t, sender, uuid.New())
	sess, client := env.newJoinedSession(t, sender, conv.ID)

	env.handlers.HandleMessage(context.Background(), sess,
		[]byte(`{"type":"message","content":"   "}`))

	frame := readFrame(t, client, "error")
	var data errorData
	decodeData(t, frame, &data)
	require.Equal(t, messaging.ErrEmptyContent.Error(), data.Message)

	msgs, err := env.msgRepo.ListByConversation(context.Background(), conv.ID, 10, nil)
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestHandleReadReceipt(t *testing.T) {
	env := newTestEnv(t)
	reader, sender := uuid.New(), uuid.New()
	conv := env.seedConversation(t, reader, sender)
	ctx := context.Background()

	msg, err := messaging.NewMessage(conv.ID, sender, "read me", messaging.ContentTypeText, nil)
	require.NoError(t, err)
	require.NoError(t, env.msgRepo.Create(ctx, msg))

	readerSess, readerClient := env.newJoinedSession(t, reader, conv.ID)
	_, senderClient := env.newJoinedSession(t, sender, conv.ID)

	raw := fmt.Sprintf(`{"type":"read_receipt","message_ids":[%q]}`, msg.ID)
	env.handlers.HandleReadReceipt(ctx, readerSess, []byte(raw))

	// The read stamp landed and the receipt reached the sender.
	stamped, err := env.msgRepo.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	require.NotNil(t, stamped.ReadAt)

	frame := readFrame(t, senderClient, EventReadReceipt)
	var data struct {
		UserID     string   `json:"user_id"`
		MessageIDs []string `json:"message_ids"`
	}
	decodeData(t, frame, &data)
	require.Equal(t, reader.String(), data.UserID)
	require.Equal(t, []string{msg.ID.String()}, data.MessageIDs)

	// Replaying is harmless and still broadcast.
	env.handlers.HandleReadReceipt(ctx, readerSess, []byte(raw))
	readFrame(t, readerClient, EventReadReceipt)
}

func TestHandleReadReceiptValidation(t *testing.T) {
	env := newTestEnv(t)
	reader := uuid.New()
	conv := env.seedConversation(t, reader, uuid.New())
	sess, client := env.newJoinedSession(t, reader, conv.ID)
	ctx := context.Background()

	env.handlers.HandleReadReceipt(ctx, sess, []byte(`{"type":"read_receipt","message_ids":[]}`))
	frame := readFrame(t, client, "error")
	var data errorData
	decodeData(t, frame, &data)
	require.Equal(t, "message_ids cannot be empty", data.Message)

	env.handlers.HandleReadReceipt(ctx, sess, []byte(`{"type":"read_receipt","message_ids":["not-a-uuid"]}`))
	frame = readFrame(t, client, "error")
	decodeData(t, frame, &data)
	require.Equal(t, "invalid message id: not-a-uuid", data.Message)
}

func TestHandleTyping(t *testing.T) {
	env := newTestEnv(t)
	typer, peer := uuid.New(), uuid.New()
	conv := env.seedConversation(t, typer, peer)

	typerSess, _ := env.newJoinedSession(t, typer, conv.ID)
	_, peerClient := env.newJoinedSession(t, peer, conv.ID)

	env.handlers.HandleTyping(context.Background(), typerSess,
		[]byte(`{"type":"typing","is_typing":true}`))

	frame := readFrame(t, peerClient, EventTypingIndicator)
	var data struct {
		UserID   string `json:"user_id"`
		IsTyping bool   `json:"is_typing"`
	}
	decodeData(t, frame, &data)
	require.Equal(t, typer.String(), data.UserID)
	require.True(t, data.IsTyping)

	// Typing is ephemeral: nothing reaches the store.
	msgs, err := env.msgRepo.ListByConversation(context.Background(), conv.ID, 10, nil)
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestHandleLoadHistory(t *testing.T) {
	env := newTestEnv(t)
	user := uuid.New()
	conv := env.seedConversation(t, user, uuid.New())
	sess, client := env.newJoinedSession(t, user, conv.ID)
	_, peerClient := env.newJoinedSession(t, uuid.New(), conv.ID)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		m, err := messaging.NewMessage(conv.ID, user, fmt.Sprintf("msg %d", i), messaging.ContentTypeText, nil)
		require.NoError(t, err)
		require.NoError(t, env.msgRepo.Create(ctx, m))
	}

	env.handlers.HandleLoadHistory(ctx, sess, []byte(`{"type":"load_history","limit":5}`))

	frame := readFrame(t, client, "message_history")
	var page historyData
	decodeData(t, frame, &page)
	require.Len(t, page.Messages, 5)
	require.True(t, page.HasMore)
	require.NotNil(t, page.NextCursor)

	// The next page continues from the cursor.
	raw := fmt.Sprintf(`{"type":"load_history","limit":5,"before_id":%q}`, *page.NextCursor)
	env.handlers.HandleLoadHistory(ctx, sess, []byte(raw))
	frame = readFrame(t, client, "message_history")
	decodeData(t, frame, &page)
	require.Len(t, page.Messages, 5)
	require.True(t, page.HasMore)

	// History is a direct reply, never broadcast to the group.
	_ = peerClient.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := peerClient.ReadMessage()
	require.Error(t, err, "peer must not receive another session's history")
}

func TestHandleLoadHistoryBadCursor(t *testing.T) {
	env := newTestEnv(t)
	user := uuid.New()
	conv := env.seedConversation(t, user, uuid.New())
	sess, client := env.newJoinedSession(t, user, conv.ID)
	ctx := context.Background()

	m, err := messaging.NewMessage(conv.ID, user, "only one", messaging.ContentTypeText, nil)
	require.NoError(t, err)
	require.NoError(t, env.msgRepo.Create(ctx, m))

	// An unparseable cursor degrades to an unfiltered page.
	env.handlers.HandleLoadHistory(ctx, sess,
		[]byte(`{"type":"load_history","before_id":"garbage"}`))

	frame := readFrame(t, client, "message_history")
	var page historyData
	decodeData(t, frame, &page)
	require.Len(t, page.Messages, 1)
	require.False(t, page.HasMore)
}
