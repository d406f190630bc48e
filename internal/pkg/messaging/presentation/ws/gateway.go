package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	authport "github.com/idrissnt/SEMO-sub000/internal/infrastructure/auth/port"
	busport "github.com/idrissnt/SEMO-sub000/internal/infrastructure/bus/port"
	"github.com/idrissnt/SEMO-sub000/internal/infrastructure/realtime"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/application/usecase"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

const defaultReadTimeout = 60 * time.Second

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browsers enforce the token; cross-origin upgrades are allowed.
		return true
	},
}

// Gateway authenticates an incoming websocket connection, verifies
// conversation membership, joins the session to the conversation's broadcast
// group, and runs the frame loop until the transport closes.
type Gateway struct {
	verifier      authport.TokenVerifier
	membership    *usecase.VerifyMembershipUseCase
	conversations repository.ConversationRepository
	bus           busport.Bus
	dispatcher    *Dispatcher
	presence      *realtime.Presence // nil disables presence tracking
	storeTimeout  time.Duration
	log           zerolog.Logger
}

func NewGateway(
	verifier authport.TokenVerifier,
	membership *usecase.VerifyMembershipUseCase,
	conversations repository.ConversationRepository,
	bus busport.Bus,
	dispatcher *Dispatcher,
	presence *realtime.Presence,
	storeTimeout time.Duration,
	log zerolog.Logger,
) *Gateway {
	if storeTimeout <= 0 {
		storeTimeout = 5 * time.Second
	}
	return &Gateway{
		verifier:      verifier,
		membership:    membership,
		conversations: conversations,
		bus:           bus,
		dispatcher:    dispatcher,
		presence:      presence,
		storeTimeout:  storeTimeout,
		log:           log,
	}
}

// Handle upgrades the HTTP request and drives the session until disconnect.
// All verification happens after the upgrade so rejections can carry the
// reserved close codes instead of opaque HTTP errors.
func (g *Gateway) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			g.log.Debug().Err(err).Msg("websocket upgrade failed")
			return
		}

		ctx, cancel := contextWithTimeout(g.storeTimeout)
		principal, err := g.verifier.Verify(ctx, bearerToken(c))
		cancel()
		if err != nil {
			// One close code for every auth failure; no detail leaks.
			rejectWS(conn, realtime.CloseAuthFailed)
			return
		}

		conversationID, err := uuid.Parse(c.Param("conversation_id"))
		if err != nil {
			rejectWS(conn, realtime.CloseBadID)
			return
		}

		ctx, cancel = contextWithTimeout(g.storeTimeout)
		err = g.membership.Execute(ctx, conversationID, principal.UserID)
		cancel()
		if err != nil {
			code := realtime.CloseNotParticipant
			if errors.Is(err, usecase.ErrPersistence) {
				code = websocket.CloseInternalServerErr
			}
			rejectWS(conn, code)
			return
		}

		wsConn := realtime.NewConnection(principal.UserID, conn)
		wsConn.Start()

		session := newSession(wsConn, g.log.With().
			Str("user_id", principal.UserID.String()).
			Str("conversation_id", conversationID.String()).
			Logger())
		session.authenticate(principal.UserID)

		// The subscription must not inherit the request context: it lives
		// for the whole session.
		sub, err := g.bus.Subscribe(context.Background(), GroupName(conversationID))
		if err != nil {
			g.log.Error().Err(err).Msg("group subscribe failed")
			session.Close(websocket.CloseInternalServerErr, "subscribe failed")
			return
		}
		session.join(conversationID, sub)
		defer g.teardown(session)

		go session.pump()

		g.afterJoin(session)
		g.readLoop(c.Request.Context(), conn, session)
	}
}

// afterJoin runs the post-join side effects: handshake ack, presence, online
// broadcast, read watermark. All best-effort; the session is already live.
func (g *Gateway) afterJoin(s *Session) {
	ctx, cancel := contextWithTimeout(g.storeTimeout)
	defer cancel()

	if err := s.SendJSON(outboundFrame{
		Type: "connection_established",
		Data: mustJSON(map[string]string{
			"conversation_id": s.ConversationID().String(),
			"user_id":         s.UserID().String(),
		}),
	}); err != nil {
		s.log.Debug().Err(err).Msg("handshake ack not delivered")
	}

	if ev, err := newEvent(EventUserOnline, map[string]string{"user_id": s.UserID().String()}); err == nil {
		if err := g.bus.Publish(ctx, GroupName(s.ConversationID()), ev); err != nil {
			s.log.Warn().Err(err).Msg("online broadcast failed")
		}
	}

	if g.presence != nil {
		if err := g.presence.MarkOnline(ctx, s.ConversationID(), s.UserID()); err != nil {
			s.log.Warn().Err(err).Msg("presence mark online failed")
		}
	}

	// Opening the conversation counts as reading everything so far.
	err := g.conversations.UpdateLastRead(ctx, s.ConversationID(), s.UserID(), time.Now().UTC())
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Warn().Err(err).Msg("last read update failed")
	}
}

func (g *Gateway) readLoop(ctx context.Context, conn *websocket.Conn, s *Session) {
	conn.SetReadLimit(1 << 20) // 1MB payload cap
	_ = conn.SetReadDeadline(time.Now().Add(defaultReadTimeout))
	conn.SetPongHandler(func(string) error {
		if g.presence != nil {
			pctx, cancel := contextWithTimeout(g.storeTimeout)
			_ = g.presence.Refresh(pctx, s.ConversationID(), s.UserID())
			cancel()
		}
		return conn.SetReadDeadline(time.Now().Add(defaultReadTimeout))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived) && !errors.Is(err, websocket.ErrCloseSent) {
				s.log.Debug().Err(err).Msg("read loop ended")
			}
			return
		}
		g.dispatcher.Dispatch(ctx, s, data)
		// A full outbound buffer tears the connection down mid-dispatch;
		// stop reading instead of waiting for the next read error.
		if s.conn.Closed() {
			return
		}
	}
}

// teardown runs when the transport closes for any reason. It is idempotent
// and publishes the offline event only for sessions that actually joined.
func (g *Gateway) teardown(s *Session) {
	if s.State() == StateJoined {
		ctx, cancel := contextWithTimeout(g.storeTimeout)
		if ev, err := newEvent(EventUserOffline, map[string]string{"user_id": s.UserID().String()}); err == nil {
			if err := g.bus.Publish(ctx, GroupName(s.ConversationID()), ev); err != nil {
				s.log.Warn().Err(err).Msg("offline broadcast failed")
			}
		}
		if g.presence != nil {
			if err := g.presence.MarkOffline(ctx, s.ConversationID(), s.UserID()); err != nil {
				s.log.Warn().Err(err).Msg("presence mark offline failed")
			}
		}
		cancel()
	}
	s.Close(websocket.CloseNormalClosure, "session closed")
}

// bearerToken extracts the credential from the query string or the
// Authorization header.
func bearerToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// rejectWS closes a connection that never became a session.
func rejectWS(conn *websocket.Conn, code int) {
	deadline := time.Now().Add(5 * time.Second)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, ""), deadline)
	_ = conn.Close()
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
