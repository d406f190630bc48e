package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	busadapter "github.com/idrissnt/SEMO-sub000/internal/infrastructure/bus/adapter"
	busport "github.com/idrissnt/SEMO-sub000/internal/infrastructure/bus/port"
	"github.com/idrissnt/SEMO-sub000/internal/infrastructure/realtime"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/application/usecase"
	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// testEnv wires the handler chain against in-memory adapters.
type testEnv struct {
	bus      *busadapter.MemoryBus
	msgRepo  *adapter.MemMessageRepository
	convRepo *adapter.MemConversationRepository

	handlers   *Handlers
	dispatcher *Dispatcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	bus := busadapter.NewMemoryBus()
	t.Cleanup(func() { _ = bus.Close() })

	msgRepo := adapter.NewMemMessageRepository()
	convRepo := adapter.NewMemConversationRepository()

	handlers := NewHandlers(
		usecase.NewSendMessageUseCase(msgRepo, convRepo),
		usecase.NewMarkMessagesReadUseCase(msgRepo, convRepo),
		usecase.NewLoadHistoryUseCase(msgRepo),
		bus,
		nil,
		time.Second,
		zerolog.Nop(),
	)

	return &testEnv{
		bus:        bus,
		msgRepo:    msgRepo,
		convRepo:   convRepo,
		handlers:   handlers,
		dispatcher: NewDispatcher(handlers, zerolog.Nop()),
	}
}

func (e *testEnv) seedConversation(t *testing.T, participants ...uuid.UUID) messaging.Conversation {
	t.Helper()
	conv, err := messaging.NewConversation(messaging.ConversationTypeGroup, participants, nil, nil)
	require.NoError(t, err)
	require.NoError(t, e.convRepo.Create(context.Background(), conv))
	return conv
}

// newJoinedSession opens a real websocket pair, wraps the server side in a
// joined session, and returns the client side for assertions.
func (e *testEnv) newJoinedSession(t *testing.T, userID uuid.UUID, conversationID uuid.UUID) (*Session, *websocket.Conn) {
	t.Helper()

	serverConns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { _ = client.Close() })

	var serverConn *websocket.Conn
	select {
	case serverConn = <-serverConns:
	case <-time.After(time.Second):
		t.Fatal("server side of the socket never arrived")
	}

	conn := realtime.NewConnection(userID, serverConn)
	conn.Start()
	sess := newSession(conn, zerolog.Nop())
	sess.authenticate(userID)

	sub, err := e.bus.Subscribe(context.Background(), GroupName(conversationID))
	require.NoError(t, err)
	sess.join(conversationID, sub)
	go sess.pump()
	t.Cleanup(func() { sess.Close(websocket.CloseNormalClosure, "test done") })

	return sess, client
}

// readFrame blocks until the client receives a frame of the wanted type,
// skipping others, or fails after the deadline.
func readFrame(t *testing.T, client *websocket.Conn, wantType string) outboundFrame {
	t.Helper()
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, data, err := client.ReadMessage()
		require.NoError(t, err, "waiting for %q frame", wantType)
		var frame outboundFrame
		require.NoError(t, json.Unmarshal(data, &frame))
		if frame.Type == wantType {
			return frame
		}
	}
}

func decodeData(t *testing.T, frame outboundFrame, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(frame.Data, into))
}

func TestRenderEvent(t *testing.T) {
	payload := json.RawMessage(`{"content":"hi"}`)

	// chat_message reaches the client as a plain "message" frame.
	data, ok := RenderEvent(busport.Event{Type: EventChatMessage, Data: payload})
	require.True(t, ok)
	var frame outboundFrame
	require.NoError(t, json.Unmarshal(data, &frame))
	require.Equal(t, "message", frame.Type)
	require.JSONEq(t, string(payload), string(frame.Data))

	// Other known events keep their own name.
	for _, typ := range []string{
		EventReadReceipt, EventTypingIndicator, EventUserOnline, EventUserOffline,
		EventMessageUpdated, EventMessageDeleted, EventConversationUpdated,
	} {
		data, ok := RenderEvent(busport.Event{Type: typ, Data: payload})
		require.True(t, ok, typ)
		require.NoError(t, json.Unmarshal(data, &frame))
		require.Equal(t, typ, frame.Type)
	}

	// Internals never leak to clients.
	_, ok = RenderEvent(busport.Event{Type: "cache_invalidate", Data: payload})
	require.False(t, ok)
}
