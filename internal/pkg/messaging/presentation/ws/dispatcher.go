package ws

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// HandlerFunc processes one decoded inbound frame for a joined session.
type HandlerFunc func(ctx context.Context, s *Session, raw []byte)

// Dispatcher routes inbound frames to handlers by their "type" tag. Unknown
// or undecodable frames produce an error frame back to the sender and are
// otherwise ignored; they never close the connection.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	log      zerolog.Logger
}

func NewDispatcher(h *Handlers, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: map[string]HandlerFunc{
			frameMessage:     h.HandleMessage,
			frameReadReceipt: h.HandleReadReceipt,
			frameTyping:      h.HandleTyping,
			frameLoadHistory: h.HandleLoadHistory,
		},
		log: log,
	}
}

// Dispatch is called from the session's read loop, so frames from one client
// are always processed in arrival order.
func (d *Dispatcher) Dispatch(ctx context.Context, s *Session, raw []byte) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		s.SendError("invalid frame")
		return
	}

	handler, ok := d.handlers[envelope.Type]
	if !ok {
		d.log.Warn().Str("frame_type", envelope.Type).Msg("unknown frame type")
		s.SendError("unknown message type: " + envelope.Type)
		return
	}
	handler(ctx, s, raw)
}
