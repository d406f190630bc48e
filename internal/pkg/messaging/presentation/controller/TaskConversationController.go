package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/application/usecase"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// TaskConversationController gets or creates the conversation attached to a
// task between its requester and performer.
type TaskConversationController struct {
	UC *usecase.TaskConversationUseCase
}

func NewTaskConversationController(pool *pgxpool.Pool) *TaskConversationController {
	repo := adapter.NewPgConversationRepository(pool)
	create := usecase.NewCreateConversationUseCase(repo)
	uc := usecase.NewTaskConversationUseCase(create, repo)
	return &TaskConversationController{UC: uc}
}

type taskConversationRequest struct {
	TaskID      string `json:"task_id" binding:"required"`
	RequesterID string `json:"requester_id" binding:"required"`
	PerformerID string `json:"performer_id" binding:"required"`
	TaskTitle   string `json:"task_title"`
}

func (h *TaskConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentUser(c)
		if !ok {
			return
		}

		var req taskConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		taskID, err := uuid.Parse(req.TaskID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "task_id must be a valid uuid"})
			return
		}
		requesterID, err := uuid.Parse(req.RequesterID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "requester_id must be a valid uuid"})
			return
		}
		performerID, err := uuid.Parse(req.PerformerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "performer_id must be a valid uuid"})
			return
		}
		if caller != requesterID && caller != performerID {
			c.JSON(http.StatusForbidden, gin.H{"error": "caller must be the task requester or performer"})
			return
		}

		in := usecase.TaskConversationInput{
			TaskID:      taskID,
			RequesterID: requesterID,
			PerformerID: performerID,
			TaskTitle:   req.TaskTitle,
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
