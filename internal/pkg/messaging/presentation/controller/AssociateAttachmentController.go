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

// AssociateAttachmentController links a registered attachment to a sent
// message. An attachment can be linked once, and only by its uploader.
type AssociateAttachmentController struct {
	UC *usecase.AssociateAttachmentUseCase
}

func NewAssociateAttachmentController(pool *pgxpool.Pool) *AssociateAttachmentController {
	attRepo := adapter.NewPgAttachmentRepository(pool)
	msgRepo := adapter.NewPgMessageRepository(pool)
	uc := usecase.NewAssociateAttachmentUseCase(attRepo, msgRepo)
	return &AssociateAttachmentController{UC: uc}
}

type associateAttachmentRequest struct {
	MessageID string `json:"message_id" binding:"required"`
}

func (h *AssociateAttachmentController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentUser(c)
		if !ok {
			return
		}
		attachmentID, ok := pathUUID(c, "attachment_id")
		if !ok {
			return
		}

		var req associateAttachmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		messageID, err := uuid.Parse(req.MessageID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message_id must be a valid uuid"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		att, err := h.UC.Execute(ctx, usecase.AssociateAttachmentInput{
			AttachmentID: attachmentID,
			MessageID:    messageID,
			RequestedBy:  caller,
		})
		if err != nil {
			replyError(c, err)
			return
		}

		c.JSON(http.StatusOK, attachmentJSON(att))
	}
}
