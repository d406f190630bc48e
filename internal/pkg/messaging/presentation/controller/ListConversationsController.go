package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/application/usecase"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// ListConversationsController returns the caller's conversations ordered by
// most recent activity.
type ListConversationsController struct {
	UC *usecase.ListConversationsUseCase
}

func NewListConversationsController(pool *pgxpool.Pool) *ListConversationsController {
	repo := adapter.NewPgConversationRepository(pool)
	uc := usecase.NewListConversationsUseCase(repo)
	return &ListConversationsController{UC: uc}
}

func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentUser(c)
		if !ok {
			return
		}

		// Defaults
		limit := 20
		offset := 0
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
				limit = n
			}
		}
		if v := c.Query("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		convs, err := h.UC.Execute(ctx, caller, limit, offset)
		if err != nil {
			replyError(c, err)
			return
		}

		out := make([]gin.H, 0, len(convs))
		for _, conv := range convs {
			out = append(out, conversationJSON(conv))
		}
		c.JSON(http.StatusOK, gin.H{
			"conversations": out,
			"limit":         limit,
			"offset":        offset,
			"count":         len(out),
		})
	}
}
