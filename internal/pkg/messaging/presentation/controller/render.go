package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/application/usecase"
	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	repository "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/port"
)

// principalKey is where the auth middleware stores the caller's user id.
const principalKey = "principal_user_id"

// SetPrincipal records the authenticated user id on the request context.
func SetPrincipal(c *gin.Context, userID uuid.UUID) {
	c.Set(principalKey, userID)
}

// currentUser returns the authenticated user id, aborting with 401 when the
// middleware did not run.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return uuid.Nil, false
	}
	return id, true
}

// pathUUID parses a uuid path parameter, replying 400 on malformed input.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a valid uuid"})
		return uuid.Nil, false
	}
	return id, true
}

// replyError maps use case and domain errors onto HTTP statuses.
func replyError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		status = http.StatusInternalServerError
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, messaging.ErrNotParticipant):
		status = http.StatusForbidden
	case errors.Is(err, messaging.ErrNotMessageSender):
		status = http.StatusForbidden
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func conversationJSON(conv messaging.Conversation) gin.H {
	participants := make([]string, 0, len(conv.Participants))
	for _, p := range conv.Participants {
		participants = append(participants, p.String())
	}
	return gin.H{
		"id":              conv.ID,
		"type":            conv.Type,
		"participants":    participants,
		"title":           conv.Title,
		"created_at":      conv.CreatedAt,
		"last_message_at": conv.LastMessageAt,
		"metadata":        conv.Metadata,
	}
}

func messageJSON(m messaging.Message) gin.H {
	return gin.H{
		"id":              m.ID,
		"conversation_id": m.ConversationID,
		"sender_id":       m.SenderID,
		"content":         m.Content,
		"content_type":    m.ContentType,
		"sent_at":         m.SentAt,
		"delivered_at":    m.DeliveredAt,
		"read_at":         m.ReadAt,
		"metadata":        m.Metadata,
	}
}

func attachmentJSON(a messaging.Attachment) gin.H {
	return gin.H{
		"id":           a.ID,
		"message_id":   a.MessageID,
		"uploader_id":  a.UploaderID,
		"file_url":     a.FileURL,
		"file_size":    a.FileSize,
		"content_type": a.ContentType,
		"created_at":   a.CreatedAt,
	}
}
