package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/application/usecase"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// UnreadCountController reports how many messages await the caller, either
// in one conversation (?conversation_id=) or across all of them.
type UnreadCountController struct {
	UC *usecase.UnreadCountUseCase
}

func NewUnreadCountController(pool *pgxpool.Pool) *UnreadCountController {
	msgRepo := adapter.NewPgMessageRepository(pool)
	convRepo := adapter.NewPgConversationRepository(pool)
	uc := usecase.NewUnreadCountUseCase(msgRepo, convRepo)
	return &UnreadCountController{UC: uc}
}

func (h *UnreadCountController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentUser(c)
		if !ok {
			return
		}

		var conversationID *uuid.UUID
		if raw := c.Query("conversation_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "conversation_id must be a valid uuid"})
				return
			}
			conversationID = &id
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		count, err := h.UC.Execute(ctx, usecase.UnreadCountInput{
			UserID:         caller,
			ConversationID: conversationID,
		})
		if err != nil {
			replyError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}
