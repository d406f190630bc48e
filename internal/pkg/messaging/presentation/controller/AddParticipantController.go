package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	busport "github.com/idrissnt/SEMO-sub000/internal/infrastructure/bus/port"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/application/usecase"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/adapter"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/presentation/ws"
)

// AddParticipantController adds a user to a group or task conversation and
// notifies connected clients through the broadcast bus.
type AddParticipantController struct {
	UC  *usecase.AddParticipantUseCase
	Bus busport.Bus
	Log zerolog.Logger
}

func NewAddParticipantController(pool *pgxpool.Pool, bus busport.Bus, log zerolog.Logger) *AddParticipantController {
	repo := adapter.NewPgConversationRepository(pool)
	uc := usecase.NewAddParticipantUseCase(repo)
	return &AddParticipantController{UC: uc, Bus: bus, Log: log}
}

type addParticipantRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *AddParticipantController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentUser(c)
		if !ok {
			return
		}
		conversationID, ok := pathUUID(c, "conversation_id")
		if !ok {
			return
		}

		var req addParticipantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be a valid uuid"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		conv, err := h.UC.Execute(ctx, usecase.AddParticipantInput{
			ConversationID: conversationID,
			UserID:         userID,
			AddedByID:      caller,
		})
		if err != nil {
			replyError(c, err)
			return
		}

		publishConversationUpdated(ctx, h.Bus, h.Log, conversationID, "participant_added", userID)
		c.JSON(http.StatusOK, conversationJSON(conv))
	}
}

// publishConversationUpdated tells live sessions the participant set changed.
// Delivery is best-effort; the persisted change already succeeded.
func publishConversationUpdated(ctx context.Context, bus busport.Bus, log zerolog.Logger, conversationID uuid.UUID, change string, userID uuid.UUID) {
	data, err := json.Marshal(gin.H{
		"conversation_id": conversationID,
		"change":          change,
		"user_id":         userID,
	})
	if err != nil {
		return
	}
	ev := busport.Event{Type: ws.EventConversationUpdated, Data: data}
	if err := bus.Publish(ctx, ws.GroupName(conversationID), ev); err != nil {
		log.Warn().Err(err).
			Str("conversation_id", conversationID.String()).
			Msg("conversation update broadcast failed")
	}
}
