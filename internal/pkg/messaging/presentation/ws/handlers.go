package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	busport "github.com/idrissnt/SEMO-sub000/internal/infrastructure/bus/port"
	qport "github.com/idrissnt/SEMO-sub000/internal/infrastructure/queue/port"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/application/task"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/application/usecase"
	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
)

// Handlers implements the protocol operations a joined session can request.
// Each handler validates input, runs the matching use case with a bounded
// store timeout, and publishes the resulting event to the conversation group.
// Persistence failures never publish; publish failures never roll back.
type Handlers struct {
	sendMessage *usecase.SendMessageUseCase
	markRead    *usecase.MarkMessagesReadUseCase
	loadHistory *usecase.LoadHistoryUseCase

	bus          busport.Bus
	queue        qport.Client // nil disables delivery stamping
	storeTimeout time.Duration
	log          zerolog.Logger
}

func NewHandlers(
	sendMessage *usecase.SendMessageUseCase,
	markRead *usecase.MarkMessagesReadUseCase,
	loadHistory *usecase.LoadHistoryUseCase,
	bus busport.Bus,
	queue qport.Client,
	storeTimeout time.Duration,
	log zerolog.Logger,
) *Handlers {
	if storeTimeout <= 0 {
		storeTimeout = 5 * time.Second
	}
	return &Handlers{
		sendMessage:  sendMessage,
		markRead:     markRead,
		loadHistory:  loadHistory,
		bus:          bus,
		queue:        queue,
		storeTimeout: storeTimeout,
		log:          log,
	}
}

// HandleMessage persists a new message and fans it out to the group,
// including the sender, who uses the echo as their delivery confirmation.
func (h *Handlers) HandleMessage(ctx context.Context, s *Session, raw []byte) {
	var frame messageFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		s.SendError("invalid frame")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, h.storeTimeout)
	defer cancel()

	msg, err := h.sendMessage.Execute(ctx, usecase.SendMessageInput{
		ConversationID: s.ConversationID(),
		SenderID:       s.UserID(),
		Content:        frame.Content,
		ContentType:    messaging.ContentType(frame.ContentType),
		Metadata:       frame.Metadata,
	})
	if err != nil {
		h.replyUseCaseError(s, err, "error creating message")
		return
	}

	ev, err := newEvent(EventChatMessage, toMessagePayload(msg))
	if err != nil {
		s.SendError("error creating message")
		return
	}
	if err := h.bus.Publish(ctx, GroupName(s.ConversationID()), ev); err != nil {
		// The message is durable; fan-out is at-most-once by contract.
		h.log.Error().Err(err).Str("message_id", msg.ID.String()).Msg("broadcast failed")
	}

	if h.queue != nil {
		if err := task.EnqueueMarkDelivered(ctx, h.queue, []uuid.UUID{msg.ID}); err != nil {
			h.log.Error().Err(err).Msg("enqueue mark_delivered failed")
		}
	}
}

// HandleReadReceipt stamps read_at on the listed messages. Ids of messages
// the reader sent themselves are filtered in the use case, and already-read
// messages are untouched, so replays stay harmless. The receipt is broadcast
// even when nothing changed.
func (h *Handlers) HandleReadReceipt(ctx context.Context, s *Session, raw []byte) {
	var frame readReceiptFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		s.SendError("invalid frame")
		return
	}
	if len(frame.MessageIDs) == 0 {
		s.SendError("message_ids cannot be empty")
		return
	}

	ids := make([]uuid.UUID, 0, len(frame.MessageIDs))
	for _, rawID := range frame.MessageIDs {
		id, err := uuid.Parse(rawID)
		if err != nil {
			s.SendError("invalid message id: " + rawID)
			return
		}
		ids = append(ids, id)
	}

	ctx, cancel := context.WithTimeout(ctx, h.storeTimeout)
	defer cancel()

	if _, err := h.markRead.Execute(ctx, usecase.MarkMessagesReadInput{
		ConversationID: s.ConversationID(),
		ReaderID:       s.UserID(),
		MessageIDs:     ids,
	}); err != nil {
		h.replyUseCaseError(s, err, "error processing read receipt")
		return
	}

	ev, err := newEvent(EventReadReceipt, map[string]any{
		"user_id":     s.UserID().String(),
		"message_ids": frame.MessageIDs,
	})
	if err != nil {
		return
	}
	if err := h.bus.Publish(ctx, GroupName(s.ConversationID()), ev); err != nil {
		h.log.Error().Err(err).Msg("read receipt broadcast failed")
	}
}

// HandleTyping relays a typing indicator. Nothing is persisted.
func (h *Handlers) HandleTyping(ctx context.Context, s *Session, raw []byte) {
	var frame typingFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		s.SendError("invalid frame")
		return
	}

	ev, err := newEvent(EventTypingIndicator, map[string]any{
		"user_id":   s.UserID().String(),
		"is_typing": frame.IsTyping,
	})
	if err != nil {
		return
	}
	if err := h.bus.Publish(ctx, GroupName(s.ConversationID()), ev); err != nil {
		h.log.Error().Err(err).Msg("typing broadcast failed")
	}
}

// HandleLoadHistory reads a page of history and replies directly to the
// requesting session; history is never broadcast.
func (h *Handlers) HandleLoadHistory(ctx context.Context, s *Session, raw []byte) {
	var frame loadHistoryFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		s.SendError("invalid frame")
		return
	}

	var beforeID *uuid.UUID
	if frame.BeforeID != nil {
		// An unparseable cursor degrades to "no cursor", same as an unknown one.
		if id, err := uuid.Parse(*frame.BeforeID); err == nil {
			beforeID = &id
		}
	}

	ctx, cancel := context.WithTimeout(ctx, h.storeTimeout)
	defer cancel()

	page, err := h.loadHistory.Execute(ctx, usecase.LoadHistoryInput{
		ConversationID: s.ConversationID(),
		Limit:          frame.Limit,
		BeforeID:       beforeID,
	})
	if err != nil {
		h.replyUseCaseError(s, err, "error loading message history")
		return
	}

	msgs := make([]messagePayload, 0, len(page.Messages))
	for _, m := range page.Messages {
		msgs = append(msgs, toMessagePayload(m))
	}
	var next *string
	if page.NextCursor != nil {
		v := page.NextCursor.String()
		next = &v
	}

	data, err := json.Marshal(historyData{Messages: msgs, NextCursor: next, HasMore: page.HasMore})
	if err != nil {
		s.SendError("error loading message history")
		return
	}
	if err := s.SendJSON(outboundFrame{Type: "message_history", Data: data}); err != nil {
		h.log.Debug().Err(err).Msg("history reply not delivered")
	}
}

// replyUseCaseError maps use case failures onto the frame-level error
// contract: validation problems carry their own message, infrastructure
// problems get a generic one.
func (h *Handlers) replyUseCaseError(s *Session, err error, generic string) {
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		h.log.Error().Err(err).Str("user_id", s.UserID().String()).Msg(generic)
		s.SendError(generic)
	case errors.Is(err, messaging.ErrNotParticipant):
		s.SendError("user is not a participant in this conversation")
	default:
		s.SendError(err.Error())
	}
}
