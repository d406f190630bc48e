package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/application/usecase"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// GetConversationController returns one conversation to a participant.
type GetConversationController struct {
	UC *usecase.GetConversationUseCase
}

func NewGetConversationController(pool *pgxpool.Pool) *GetConversationController {
	repo := adapter.NewPgConversationRepository(pool)
	uc := usecase.NewGetConversationUseCase(repo)
	return &GetConversationController{UC: uc}
}

func (h *GetConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentUser(c)
		if !ok {
			return
		}
		conversationID, ok := pathUUID(c, "conversation_id")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		conv, err := h.UC.Execute(ctx, conversationID, caller)
		if err != nil {
			replyError(c, err)
			return
		}
		c.JSON(http.StatusOK, conversationJSON(conv))
	}
}
