package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/idrissnt/SEMO-sub000/internal/infrastructure/realtime"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/application/usecase"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// OnlineParticipantsController answers which participants currently hold an
// open connection to the conversation, read from the presence registry.
type OnlineParticipantsController struct {
	UC       *usecase.GetConversationUseCase
	Presence *realtime.Presence
	Log      zerolog.Logger
}

func NewOnlineParticipantsController(pool *pgxpool.Pool, presence *realtime.Presence, log zerolog.Logger) *OnlineParticipantsController {
	repo := adapter.NewPgConversationRepository(pool)
	uc := usecase.NewGetConversationUseCase(repo)
	return &OnlineParticipantsController{UC: uc, Presence: presence, Log: log}
}

func (h *OnlineParticipantsController) Handle() gin.HandlerFunc {
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

		online := make([]string, 0, len(conv.Participants))
		for _, userID := range conv.Participants {
			isOnline, err := h.Presence.IsOnline(ctx, conversationID, userID)
			if err != nil {
				// Presence is best-effort: a cache failure reads as offline.
				h.Log.Warn().Err(err).Msg("presence lookup failed")
				continue
			}
			if isOnline {
				online = append(online, userID.String())
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"conversation_id": conversationID,
			"online":          online,
		})
	}
}
