package ws

import (
	"encoding/json"

	busport "github.com/idrissnt/SEMO-sub000/internal/infrastructure/bus/port"
)

// RenderEvent converts a broadcast bus event into the outbound frame bytes a
// session writes to its client. The second return is false for event types
// the protocol does not expose.
func RenderEvent(ev busport.Event) ([]byte, bool) {
	frameType := ev.Type
	switch ev.Type {
	case EventChatMessage:
		frameType = "message"
	case EventReadReceipt, EventTypingIndicator,
		EventUserOnline, EventUserOffline,
		EventMessageUpdated, EventMessageDeleted, EventConversationUpdated:
	default:
		return nil, false
	}

	payload, err := json.Marshal(outboundFrame{Type: frameType, Data: ev.Data})
	if err != nil {
		return nil, false
	}
	return payload, true
}

// newEvent packs an already-marshalable payload into a bus event.
func newEvent(eventType string, data any) (busport.Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return busport.Event{}, err
	}
	return busport.Event{Type: eventType, Data: raw}, nil
}
