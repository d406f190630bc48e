package adapter

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

// In-memory repository adapters for tests and single-node setups. They
// mirror the postgres adapters' semantics: newest-first listing with a
// strict (sent_at, id) cursor, stamps that only transition from unset, and
// watermarks that never move backward.

type MemMessageRepository struct {
	mu       sync.Mutex
	messages map[uuid.UUID]messaging.Message
}

func NewMemMessageRepository() *MemMessageRepository {
	return &MemMessageRepository{messages: make(map[uuid.UUID]messaging.Message)}
}

var _ repository.MessageRepository = (*MemMessageRepository)(nil)

func (r *MemMessageRepository) Create(_ context.Context, m messaging.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[m.ID] = m
	return nil
}

func (r *MemMessageRepository) GetByID(_ context.Context, id uuid.UUID) (messaging.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return messaging.Message{}, repository.ErrNotFound
	}
	return m, nil
}

func (r *MemMessageRepository) ListByConversation(_ context.Context, conversationID uuid.UUID, limit int, before *messaging.Cursor) ([]messaging.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var msgs []messaging.Message
	for _, m := range r.messages {
		if m.ConversationID != conversationID {
			continue
		}
		if before != nil {
			cutoff := messaging.Message{ID: before.ID, SentAt: before.SentAt}
			if !m.Before(&cutoff) {
				continue
			}
		}
		msgs = append(msgs, m)
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[j].Before(&msgs[i]) })
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (r *MemMessageRepository) MarkDelivered(_ context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	return r.stamp(ids, at, func(m *messaging.Message, t *time.Time) bool {
		if m.DeliveredAt != nil {
			return false
		}
		m.DeliveredAt = t
		return true
	})
}

func (r *MemMessageRepository) MarkRead(_ context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	return r.stamp(ids, at, func(m *messaging.Message, t *time.Time) bool {
		if m.ReadAt != nil {
			return false
		}
		m.ReadAt = t
		return true
	})
}

func (r *MemMessageRepository) stamp(ids []uuid.UUID, at time.Time, apply func(*messaging.Message, *time.Time) bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		m, ok := r.messages[id]
		if !ok {
			continue
		}
		t := at
		if apply(&m, &t) {
			r.messages[id] = m
			n++
		}
	}
	return n, nil
}

func (r *MemMessageRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.messages[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.messages, id)
	return nil
}

func (r *MemMessageRepository) CountUnread(_ context.Context, conversationID, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.SenderID != userID && m.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

type MemConversationRepository struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]messaging.Conversation
	lastRead      map[uuid.UUID]map[uuid.UUID]time.Time
}

func NewMemConversationRepository() *MemConversationRepository {
	return &MemConversationRepository{
		conversations: make(map[uuid.UUID]messaging.Conversation),
		lastRead:      make(map[uuid.UUID]map[uuid.UUID]time.Time),
	}
}

var _ repository.ConversationRepository = (*MemConversationRepository)(nil)

func (r *MemConversationRepository) Create(_ context.Context, c messaging.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations[c.ID] = c
	return nil
}

func (r *MemConversationRepository) GetByID(_ context.Context, id uuid.UUID) (messaging.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[id]
	if !ok {
		return messaging.Conversation{}, repository.ErrNotFound
	}
	return c, nil
}

func (r *MemConversationRepository) GetDirectBetween(_ context.Context, userID1, userID2 uuid.UUID) (messaging.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.conversations {
		if c.Type == messaging.ConversationTypeDirect && c.HasParticipant(userID1) && c.HasParticipant(userID2) {
			return c, nil
		}
	}
	return messaging.Conversation{}, repository.ErrNotFound
}

func (r *MemConversationRepository) GetByTask(_ context.Context, taskID uuid.UUID) (messaging.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.conversations {
		if c.Type != messaging.ConversationTypeTask {
			continue
		}
		if id, ok := c.Metadata["task_id"].(string); ok && id == taskID.String() {
			return c, nil
		}
	}
	return messaging.Conversation{}, repository.ErrNotFound
}

func (r *MemConversationRepository) ListByParticipant(_ context.Context, userID uuid.UUID, limit, offset int) ([]messaging.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []messaging.Conversation
	for _, c := range r.conversations {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].CreatedAt, out[j].CreatedAt
		if out[i].LastMessageAt != nil {
			ti = *out[i].LastMessageAt
		}
		if out[j].LastMessageAt != nil {
			tj = *out[j].LastMessageAt
		}
		return ti.After(tj)
	})
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemConversationRepository) AddParticipant(_ context.Context, p messaging.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[p.ConversationID]
	if !ok {
		return repository.ErrNotFound
	}
	if !c.HasParticipant(p.UserID) {
		c.Participants = append(c.Participants, p.UserID)
		r.conversations[c.ID] = c
	}
	return nil
}

func (r *MemConversationRepository) RemoveParticipant(_ context.Context, conversationID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[conversationID]
	if !ok {
		return repository.ErrNotFound
	}
	for i, p := range c.Participants {
		if p == userID {
			c.Participants = append(c.Participants[:i], c.Participants[i+1:]...)
			r.conversations[c.ID] = c
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *MemConversationRepository) IsParticipant(_ context.Context, conversationID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[conversationID]
	if !ok {
		return false, nil
	}
	return c.HasParticipant(userID), nil
}

func (r *MemConversationRepository) UpdateLastMessageAt(_ context.Context, conversationID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[conversationID]
	if !ok {
		return repository.ErrNotFound
	}
	c.TouchLastMessage(at)
	r.conversations[c.ID] = c
	return nil
}

func (r *MemConversationRepository) UpdateTitle(_ context.Context, conversationID uuid.UUID, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[conversationID]
	if !ok {
		return repository.ErrNotFound
	}
	c.Title = &title
	r.conversations[c.ID] = c
	return nil
}

func (r *MemConversationRepository) UpdateLastRead(_ context.Context, conversationID, userID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conversations[conversationID]; !ok {
		return repository.ErrNotFound
	}
	byUser := r.lastRead[conversationID]
	if byUser == nil {
		byUser = make(map[uuid.UUID]time.Time)
		r.lastRead[conversationID] = byUser
	}
	if at.After(byUser[userID]) {
		byUser[userID] = at
	}
	return nil
}

// LastRead reports the stored read watermark for a participant.
func (r *MemConversationRepository) LastRead(conversationID, userID uuid.UUID) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	at, ok := r.lastRead[conversationID][userID]
	return at, ok
}

type MemAttachmentRepository struct {
	mu          sync.Mutex
	attachments map[uuid.UUID]messaging.Attachment
}

func NewMemAttachmentRepository() *MemAttachmentRepository {
	return &MemAttachmentRepository{attachments: make(map[uuid.UUID]messaging.Attachment)}
}

var _ repository.AttachmentRepository = (*MemAttachmentRepository)(nil)

func (r *MemAttachmentRepository) Create(_ context.Context, a messaging.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attachments[a.ID] = a
	return nil
}

func (r *MemAttachmentRepository) GetByID(_ context.Context, id uuid.UUID) (messaging.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attachments[id]
	if !ok {
		return messaging.Attachment{}, repository.ErrNotFound
	}
	return a, nil
}

func (r *MemAttachmentRepository) Associate(_ context.Context, attachmentID, messageID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attachments[attachmentID]
	if !ok || a.MessageID != nil {
		// Same contract as the postgres adapter: an already-owned
		// attachment matches no updatable row.
		return repository.ErrNotFound
	}
	a.MessageID = &messageID
	r.attachments[attachmentID] = a
	return nil
}

func (r *MemAttachmentRepository) ListByMessage(_ context.Context, messageID uuid.UUID) ([]messaging.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []messaging.Attachment
	for _, a := range r.attachments {
		if a.MessageID != nil && *a.MessageID == messageID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
