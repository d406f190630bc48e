package v1

import (
	"github.com/gin-gonic/gin"

	httpHandler "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/presentation/http"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1 and the
// realtime gateway at the engine root.
func RegisterRoutes(r *gin.Engine, deps httpHandler.Deps) {
	v1 := r.Group("/api/v1")
	httpHandler.RegisterRoutes(v1, deps)
	httpHandler.RegisterWebsocket(r, deps)
}
