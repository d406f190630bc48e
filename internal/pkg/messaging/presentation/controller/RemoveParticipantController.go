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

// RemoveParticipantController removes a user from a group or task
// conversation. Users may always remove themselves; removing someone else
// requires being a participant too.
type RemoveParticipantController struct {
	UC  *usecase.RemoveParticipantUseCase
	Bus busport.Bus
	Log zerolog.Logger
}

func NewRemoveParticipantController(pool *pgxpool.Pool, bus busport.Bus, log zerolog.Logger) *RemoveParticipantController {
	repo := adapter.NewPgConversationRepository(pool)
	uc := usecase.NewRemoveParticipantUseCase(repo)
	return &RemoveParticipantController{UC: uc, Bus: bus, Log: log}
}

func (h *RemoveParticipantController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentUser(c)
		if !ok {
			return
		}
		conversationID, ok := pathUUID(c, "conversation_id")
		if !ok {
			return
		}
		userID, ok := pathUUID(c, "user_id")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		conv, err := h.UC.Execute(ctx, usecase.RemoveParticipantInput{
			ConversationID: conversationID,
			UserID:         userID,
			RemovedByID:    caller,
		})
		if err != nil {
			replyError(c, err)
			return
		}

		publishConversationUpdated(ctx, h.Bus, h.Log, conversationID, "participant_removed", userID)
		c.JSON(http.StatusOK, conversationJSON(conv))
	}
}
