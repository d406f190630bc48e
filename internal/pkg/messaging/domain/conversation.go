package messaging

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ConversationType discriminates the three conversation shapes the service
// supports.
type ConversationType string

const (
	ConversationTypeDirect ConversationType = "direct"
	ConversationTypeGroup  ConversationType = "group"
	ConversationTypeTask   ConversationType = "task"
)

// Domain-level errors for conversation behaviors
var (
	ErrDirectParticipants  = errors.New("messaging: direct conversations must have exactly 2 participants")
	ErrMinParticipants     = errors.New("messaging: conversation needs at least 2 participants")
	ErrNotParticipant      = errors.New("messaging: user is not a participant in the conversation")
	ErrInvalidConversation = errors.New("messaging: invalid conversation type")
)

// Conversation is a container of messages between a fixed (direct) or mutable
// (group/task) set of participants. Direct conversations always hold exactly
// two participants; that invariant is enforced here, not in the store.
type Conversation struct {
	ID            uuid.UUID
	Type          ConversationType
	Participants  []uuid.UUID
	Title         *string
	CreatedAt     time.Time
	LastMessageAt *time.Time
	Metadata      map[string]any
}

// NewConversation validates and builds a conversation. The id and created_at
// are assigned here so the store only ever persists complete records.
func NewConversation(convType ConversationType, participants []uuid.UUID, title *string, metadata map[string]any) (Conversation, error) {
	participants = dedupe(participants)
	switch convType {
	case ConversationTypeDirect:
		if len(participants) != 2 {
			return Conversation{}, ErrDirectParticipants
		}
	case ConversationTypeGroup, ConversationTypeTask:
		if len(participants) < 2 {
			return Conversation{}, ErrMinParticipants
		}
	default:
		return Conversation{}, ErrInvalidConversation
	}

	if metadata == nil {
		metadata = map[string]any{}
	}
	return Conversation{
		ID:           uuid.New(),
		Type:         convType,
		Participants: participants,
		Title:        title,
		CreatedAt:    time.Now().UTC(),
		Metadata:     metadata,
	}, nil
}

// HasParticipant tells whether userID is part of this conversation.
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// AddParticipant adds userID. Direct conversations are fixed-membership.
func (c *Conversation) AddParticipant(userID uuid.UUID) error {
	if c.Type == ConversationTypeDirect {
		return ErrDirectParticipants
	}
	if c.HasParticipant(userID) {
		return nil
	}
	c.Participants = append(c.Participants, userID)
	return nil
}

// RemoveParticipant removes userID. Dropping below two participants is
// rejected and the participant set left unchanged.
func (c *Conversation) RemoveParticipant(userID uuid.UUID) error {
	if c.Type == ConversationTypeDirect {
		return ErrDirectParticipants
	}
	if len(c.Participants) <= 2 {
		return ErrMinParticipants
	}
	for i, p := range c.Participants {
		if p == userID {
			c.Participants = append(c.Participants[:i], c.Participants[i+1:]...)
			return nil
		}
	}
	return ErrNotParticipant
}

// TouchLastMessage advances the last-message watermark. It never moves the
// timestamp backward.
func (c *Conversation) TouchLastMessage(at time.Time) {
	if c.LastMessageAt == nil || at.After(*c.LastMessageAt) {
		c.LastMessageAt = &at
	}
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
