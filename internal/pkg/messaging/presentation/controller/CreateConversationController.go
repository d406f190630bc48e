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

// CreateConversationController handles conversation creation.
// One controller per endpoint.
type CreateConversationController struct {
	UC *usecase.CreateConversationUseCase
}

func NewCreateConversationController(pool *pgxpool.Pool) *CreateConversationController {
	repo := adapter.NewPgConversationRepository(pool)
	uc := usecase.NewCreateConversationUseCase(repo)
	return &CreateConversationController{UC: uc}
}

type createConversationRequest struct {
	Type         string         `json:"type" binding:"required"`
	Participants []string       `json:"participants" binding:"required"`
	Title        *string        `json:"title"`
	Metadata     map[string]any `json:"metadata"`
}

func (h *CreateConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentUser(c)
		if !ok {
			return
		}

		var req createConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		participants := make([]uuid.UUID, 0, len(req.Participants)+1)
		for _, raw := range req.Participants {
			id, err := uuid.Parse(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "participants must be valid uuids"})
				return
			}
			participants = append(participants, id)
		}
		// The creator is always a participant.
		participants = append(participants, caller)

		in := usecase.CreateConversationInput{
			Type:         messaging.ConversationType(req.Type),
			Participants: participants,
			Title:        req.Title,
			Metadata:     req.Metadata,
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		conv, err := h.UC.Execute(ctx, in)
		if err != nil {
			replyError(c, err)
			return
		}

		c.JSON(http.StatusCreated, conversationJSON(conv))
	}
}
