package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/application/usecase"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// CreateAttachmentController registers an uploaded file's metadata. The file
// body lives in external storage; clients upload there first and register
// the resulting URL here.
type CreateAttachmentController struct {
	UC *usecase.RegisterAttachmentUseCase
}

func NewCreateAttachmentController(pool *pgxpool.Pool) *CreateAttachmentController {
	repo := adapter.NewPgAttachmentRepository(pool)
	uc := usecase.NewRegisterAttachmentUseCase(repo)
	return &CreateAttachmentController{UC: uc}
}

type createAttachmentRequest struct {
	FileURL     string `json:"file_url" binding:"required"`
	FileSize    int64  `json:"file_size"`
	ContentType string `json:"content_type"`
}

func (h *CreateAttachmentController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentUser(c)
		if !ok {
			return
		}

		var req createAttachmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		att, err := h.UC.Execute(ctx, usecase.RegisterAttachmentInput{
			UploaderID:  caller,
			FileURL:     req.FileURL,
			FileSize:    req.FileSize,
			ContentType: req.ContentType,
		})
		if err != nil {
			replyError(c, err)
			return
		}

		c.JSON(http.StatusCreated, attachmentJSON(att))
	}
}
