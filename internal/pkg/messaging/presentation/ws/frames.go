package ws

import (
	"encoding/json"
	"time"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
)

// Inbound frame types. Every frame is a JSON object tagged by "type".
const (
	frameMessage     = "message"
	frameReadReceipt = "read_receipt"
	frameTyping      = "typing"
	frameLoadHistory = "load_history"
)

// Event names carried on the broadcast bus. The renderer maps them to
// outbound frame types; "chat_message" reaches the client as a plain
// "message" frame.
const (
	EventChatMessage         = "chat_message"
	EventReadReceipt         = "read_receipt"
	EventTypingIndicator     = "typing_indicator"
	EventUserOnline          = "user_online"
	EventUserOffline         = "user_offline"
	EventMessageUpdated      = "message_updated"
	EventMessageDeleted      = "message_deleted"
	EventConversationUpdated = "conversation_updated"
)

type outboundFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type errorData struct {
	Message string `json:"message"`
}

// messageFrame is the client's "message" payload.
type messageFrame struct {
	Content     string         `json:"content"`
	ContentType string         `json:"content_type"`
	Metadata    map[string]any `json:"metadata"`
}

// readReceiptFrame is the client's "read_receipt" payload.
type readReceiptFrame struct {
	MessageIDs []string `json:"message_ids"`
}

// typingFrame is the client's "typing" payload.
type typingFrame struct {
	IsTyping bool `json:"is_typing"`
}

// loadHistoryFrame is the client's "load_history" payload.
type loadHistoryFrame struct {
	Limit    int     `json:"limit"`
	BeforeID *string `json:"before_id"`
}

// messagePayload is the wire shape of a persisted message.
type messagePayload struct {
	ID             string         `json:"id"`
	ConversationID string         `json:"conversation_id"`
	SenderID       string         `json:"sender_id"`
	Content        string         `json:"content"`
	ContentType    string         `json:"content_type"`
	SentAt         time.Time      `json:"sent_at"`
	DeliveredAt    *time.Time     `json:"delivered_at,omitempty"`
	ReadAt         *time.Time     `json:"read_at,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

func toMessagePayload(m messaging.Message) messagePayload {
	return messagePayload{
		ID:             m.ID.String(),
		ConversationID: m.ConversationID.String(),
		SenderID:       m.SenderID.String(),
		Content:        m.Content,
		ContentType:    string(m.ContentType),
		SentAt:         m.SentAt,
		DeliveredAt:    m.DeliveredAt,
		ReadAt:         m.ReadAt,
		Metadata:       m.Metadata,
	}
}

// historyData is the direct reply to a "load_history" frame.
type historyData struct {
	Messages   []messagePayload `json:"messages"`
	NextCursor *string          `json:"next_cursor"`
	HasMore    bool             `json:"has_more"`
}
