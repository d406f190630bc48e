package ws

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	busport "github.com/idrissnt/SEMO-sub000/internal/infrastructure/bus/port"
	"github.com/idrissnt/SEMO-sub000/internal/infrastructure/realtime"
)

// State is the session lifecycle position. Transitions only move forward:
// Connecting -> Authenticated -> Joined -> Closed, with any failure jumping
// straight to Closed.
type State int32

const (
	StateConnecting State = iota
	StateAuthenticated
	StateJoined
	StateClosed
)

// GroupName derives the broadcast group for a conversation. Every process
// uses the same derivation, which is what makes cross-process fan-out work.
func GroupName(conversationID uuid.UUID) string {
	return "conversation_" + conversationID.String()
}

// Session is the runtime state of one websocket connection: who is on the
// other end, which conversation they joined, and the bus subscription feeding
// their outbound channel. It lives exactly as long as the connection.
type Session struct {
	conn *realtime.Connection
	log  zerolog.Logger

	userID         uuid.UUID
	conversationID uuid.UUID
	group          string
	sub            busport.Subscription

	state    atomic.Int32
	teardown sync.Once
}

func newSession(conn *realtime.Connection, log zerolog.Logger) *Session {
	return &Session{conn: conn, log: log}
}

func (s *Session) State() State { return State(s.state.Load()) }

// UserID is valid once the session reached Authenticated.
func (s *Session) UserID() uuid.UUID { return s.userID }

// ConversationID is valid once the session reached Joined.
func (s *Session) ConversationID() uuid.UUID { return s.conversationID }

func (s *Session) authenticate(userID uuid.UUID) {
	s.userID = userID
	s.state.Store(int32(StateAuthenticated))
}

func (s *Session) join(conversationID uuid.UUID, sub busport.Subscription) {
	s.conversationID = conversationID
	s.group = GroupName(conversationID)
	s.sub = sub
	s.state.Store(int32(StateJoined))
}

// SendJSON marshals v and enqueues it on the outbound channel.
func (s *Session) SendJSON(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.conn.Send(payload)
}

// SendError delivers a typed error frame to this session only. It never
// closes the connection.
func (s *Session) SendError(message string) {
	data, err := json.Marshal(errorData{Message: message})
	if err != nil {
		return
	}
	if err := s.SendJSON(outboundFrame{Type: "error", Data: data}); err != nil {
		s.log.Debug().Err(err).Msg("error frame not delivered")
	}
}

// pump drains the bus subscription through the renderer into the outbound
// channel. It exits when the subscription closes or the connection dies.
func (s *Session) pump() {
	for ev := range s.sub.Events() {
		payload, ok := RenderEvent(ev)
		if !ok {
			s.log.Warn().Str("event", ev.Type).Msg("no renderer for event type")
			continue
		}
		if err := s.conn.Send(payload); err != nil {
			return
		}
	}
}

// Close performs teardown exactly once: presence/offline signalling is the
// gateway's job, this only releases the session's own resources. It is safe
// to call from any state, including a session that never joined.
func (s *Session) Close(code int, reason string) {
	s.teardown.Do(func() {
		s.state.Store(int32(StateClosed))
		if s.sub != nil {
			_ = s.sub.Close()
		}
		s.conn.Close(code, reason)
	})
}

// contextWithTimeout scopes the best-effort store and bus calls made during
// connect and teardown, which must not inherit the request context.
func contextWithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}
