package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/application/usecase"
	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// DirectConversationController gets or creates the one-to-one conversation
// between the caller and another user.
type DirectConversationController struct {
	UC *usecase.CreateConversationUseCase
}

func NewDirectConversationController(pool *pgxpool.Pool) *DirectConversationController {
	repo := adapter.NewPgConversationRepository(pool)
	uc := usecase.NewCreateConversationUseCase(repo)
	return &DirectConversationController{UC: uc}
}

type directConversationRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *DirectConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentUser(c)
		if !ok {
			return
		}

		var req directConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		other, err := uuid.Parse(req.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be a valid uuid"})
			return
		}
		if other == caller {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open a direct conversation with yourself"})
			return
		}

		in := usecase.CreateConversationInput{
			Type:         messaging.ConversationTypeDirect,
			Participants: []uuid.UUID{caller, other},
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		conv, err := h.UC.Execute(ctx, in)
		if err != nil {
			replyError(c, err)
			return
		}

		c.JSON(http.StatusOK, conversationJSON(conv))
	}
}
