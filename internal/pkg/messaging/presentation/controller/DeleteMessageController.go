package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	busport "github.com/idrissnt/SEMO-sub000/internal/infrastructure/bus/port"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/application/usecase"
	messaging "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/domain"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/adapter"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/presentation/ws"
)

// DeleteMessageController removes a message on behalf of its sender and
// tells live sessions in the conversation it is gone.
type DeleteMessageController struct {
	UC  *usecase.DeleteMessageUseCase
	Bus busport.Bus
	Log zerolog.Logger
}

func NewDeleteMessageController(pool *pgxpool.Pool, bus busport.Bus, log zerolog.Logger) *DeleteMessageController {
	repo := adapter.NewPgMessageRepository(pool)
	uc := usecase.NewDeleteMessageUseCase(repo)
	return &DeleteMessageController{UC: uc, Bus: bus, Log: log}
}

func (h *DeleteMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentUser(c)
		if !ok {
			return
		}
		messageID, ok := pathUUID(c, "message_id")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		msg, err := h.UC.Execute(ctx, usecase.DeleteMessageInput{
			MessageID:   messageID,
			DeletedByID: caller,
		})
		if err != nil {
			replyError(c, err)
			return
		}

		h.publishDeleted(ctx, msg)
		c.Status(http.StatusNoContent)
	}
}

// publishDeleted is best-effort; the row is already gone.
func (h *DeleteMessageController) publishDeleted(ctx context.Context, msg messaging.Message) {
	data, err := json.Marshal(gin.H{
		"message_id":      msg.ID,
		"conversation_id": msg.ConversationID,
		"deleted_by":      msg.SenderID,
	})
	if err != nil {
		return
	}
	ev := busport.Event{Type: ws.EventMessageDeleted, Data: data}
	if err := h.Bus.Publish(ctx, ws.GroupName(msg.ConversationID), ev); err != nil {
		h.Log.Warn().Err(err).
			Str("message_id", msg.ID.String()).
			Msg("message delete broadcast failed")
	}
}
