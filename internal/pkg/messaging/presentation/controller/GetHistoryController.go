package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/application/usecase"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// GetHistoryController pages through a conversation's messages, newest
// first, using the same cursor scheme as the websocket load_history frame.
type GetHistoryController struct {
	Membership *usecase.VerifyMembershipUseCase
	UC         *usecase.LoadHistoryUseCase
}

func NewGetHistoryController(pool *pgxpool.Pool) *GetHistoryController {
	convRepo := adapter.NewPgConversationRepository(pool)
	msgRepo := adapter.NewPgMessageRepository(pool)
	return &GetHistoryController{
		Membership: usecase.NewVerifyMembershipUseCase(convRepo),
		UC:         usecase.NewLoadHistoryUseCase(msgRepo),
	}
}

func (h *GetHistoryController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentUser(c)
		if !ok {
			return
		}
		conversationID, ok := pathUUID(c, "conversation_id")
		if !ok {
			return
		}

		limit := 0
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}
		var beforeID *uuid.UUID
		if v := c.Query("before_id"); v != "" {
			// A cursor that does not parse degrades to no cursor, same as
			// on the websocket path.
			if id, err := uuid.Parse(v); err == nil {
				beforeID = &id
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := h.Membership.Execute(ctx, conversationID, caller); err != nil {
			replyError(c, err)
			return
		}

		page, err := h.UC.Execute(ctx, usecase.LoadHistoryInput{
			ConversationID: conversationID,
			Limit:          limit,
			BeforeID:       beforeID,
		})
		if err != nil {
			replyError(c, err)
			return
		}

		out := make([]gin.H, 0, len(page.Messages))
		for _, m := range page.Messages {
			out = append(out, messageJSON(m))
		}
		c.JSON(http.StatusOK, gin.H{
			"messages":    out,
			"next_cursor": page.NextCursor,
			"has_more":    page.HasMore,
		})
	}
}
