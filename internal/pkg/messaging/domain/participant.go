package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Participant captures membership of one user in one conversation.
// Primary key: (ConversationID, UserID).
type Participant struct {
	ConversationID uuid.UUID
	UserID         uuid.UUID
	JoinedAt       time.Time
	LastReadAt     *time.Time
	IsAdmin        bool
}

// AdvanceLastRead moves the read watermark forward. Moves backward are
// silently ignored so replayed receipts can never regress state.
func (p *Participant) AdvanceLastRead(at time.Time) {
	if p.LastReadAt == nil || at.After(*p.LastReadAt) {
		p.LastReadAt = &at
	}
}
