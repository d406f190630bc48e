package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	busport "github.com/idrissnt/SEMO-sub000/internal/infrastructure/bus/port"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/application/usecase"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// UpdateTitleController renames a conversation and notifies connected
// clients through the broadcast bus.
type UpdateTitleController struct {
	UC  *usecase.UpdateTitleUseCase
	Bus busport.Bus
	Log zerolog.Logger
}

func NewUpdateTitleController(pool *pgxpool.Pool, bus busport.Bus, log zerolog.Logger) *UpdateTitleController {
	repo := adapter.NewPgConversationRepository(pool)
	uc := usecase.NewUpdateTitleUseCase(repo)
	return &UpdateTitleController{UC: uc, Bus: bus, Log: log}
}

type updateTitleRequest struct {
	Title string `json:"title" binding:"required"`
}

func (h *UpdateTitleController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentUser(c)
		if !ok {
			return
		}
		conversationID, ok := pathUUID(c, "conversation_id")
		if !ok {
			return
		}

		var req updateTitleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		conv, err := h.UC.Execute(ctx, usecase.UpdateTitleInput{
			ConversationID: conversationID,
			Title:          req.Title,
			UpdatedByID:    caller,
		})
		if err != nil {
			replyError(c, err)
			return
		}

		publishConversationUpdated(ctx, h.Bus, h.Log, conversationID, "title_updated", caller)
		c.JSON(http.StatusOK, conversationJSON(conv))
	}
}
