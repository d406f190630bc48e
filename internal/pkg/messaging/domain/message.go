package messaging

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContentType classifies what a message body carries.
type ContentType string

const (
	ContentTypeText   ContentType = "text"
	ContentTypeImage  ContentType = "image"
	ContentTypeFile   ContentType = "file"
	ContentTypeSystem ContentType = "system"
)

var (
	ErrEmptyContent     = errors.New("messaging: message content cannot be empty")
	ErrUnknownContent   = errors.New("messaging: unknown content type")
	ErrNotMessageSender = errors.New("messaging: only the sender can delete a message")
)

// Message is a log entry in a conversation. It is immutable after creation
// except for DeliveredAt and ReadAt, which transition null -> set exactly once
// and never back.
type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Content        string
	ContentType    ContentType
	SentAt         time.Time
	DeliveredAt    *time.Time
	ReadAt         *time.Time
	Metadata       map[string]any
}

// NewMessage validates input and stamps the server-side identity and send
// time. Client timestamps are never trusted; ordering within a conversation
// is (SentAt, ID) ascending, with the collision-resistant id as tie-break.
func NewMessage(conversationID, senderID uuid.UUID, content string, contentType ContentType, metadata map[string]any) (Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, ErrEmptyContent
	}
	if contentType == "" {
		contentType = ContentTypeText
	}
	switch contentType {
	case ContentTypeText, ContentTypeImage, ContentTypeFile, ContentTypeSystem:
	default:
		return Message{}, ErrUnknownContent
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	return Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		ContentType:    contentType,
		SentAt:         time.Now().UTC(),
		Metadata:       metadata,
	}, nil
}

// Before reports whether m sorts before other in conversation order.
func (m *Message) Before(other *Message) bool {
	if !m.SentAt.Equal(other.SentAt) {
		return m.SentAt.Before(other.SentAt)
	}
	return m.ID.String() < other.ID.String()
}

// Cursor is the pagination position derived from a message: history requests
// return messages strictly earlier than (SentAt, ID).
type Cursor struct {
	SentAt time.Time
	ID     uuid.UUID
}

// CursorOf builds the cursor positioned at m.
func CursorOf(m Message) Cursor {
	return Cursor{SentAt: m.SentAt, ID: m.ID}
}
