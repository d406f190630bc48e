package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	authport "github.com/idrissnt/SEMO-sub000/internal/infrastructure/auth/port"
	busport "github.com/idrissnt/SEMO-sub000/internal/infrastructure/bus/port"
	qport "github.com/idrissnt/SEMO-sub000/internal/infrastructure/queue/port"
	"github.com/idrissnt/SEMO-sub000/internal/infrastructure/realtime"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/application/usecase"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/adapter"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/presentation/controller"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/presentation/ws"
)

// Deps carries the shared infrastructure the messaging endpoints need.
type Deps struct {
	Pool         *pgxpool.Pool
	Bus          busport.Bus
	Queue        qport.Client       // nil disables delivery stamping
	Presence     *realtime.Presence // nil disables presence tracking
	Verifier     authport.TokenVerifier
	StoreTimeout time.Duration
	Log          zerolog.Logger
}

// RegisterRoutes registers the messaging REST endpoints and the websocket
// gateway under the given router group. It constructs per-endpoint
// controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, d Deps) {
	createCtl := controller.NewCreateConversationController(d.Pool)
	directCtl := controller.NewDirectConversationController(d.Pool)
	taskCtl := controller.NewTaskConversationController(d.Pool)
	listCtl := controller.NewListConversationsController(d.Pool)
	getCtl := controller.NewGetConversationController(d.Pool)
	titleCtl := controller.NewUpdateTitleController(d.Pool, d.Bus, d.Log)
	historyCtl := controller.NewGetHistoryController(d.Pool)
	unreadCtl := controller.NewUnreadCountController(d.Pool)
	deleteMsgCtl := controller.NewDeleteMessageController(d.Pool, d.Bus, d.Log)
	addCtl := controller.NewAddParticipantController(d.Pool, d.Bus, d.Log)
	removeCtl := controller.NewRemoveParticipantController(d.Pool, d.Bus, d.Log)
	attachCtl := controller.NewCreateAttachmentController(d.Pool)
	associateCtl := controller.NewAssociateAttachmentController(d.Pool)

	auth := AuthMiddleware(d.Verifier)

	rest := g.Group("/messaging", auth)
	rest.POST("/conversations", createCtl.Handle())
	rest.POST("/conversations/direct", directCtl.Handle())
	rest.POST("/conversations/task", taskCtl.Handle())
	rest.GET("/conversations", listCtl.Handle())
	rest.GET("/conversations/:conversation_id", getCtl.Handle())
	rest.PATCH("/conversations/:conversation_id/title", titleCtl.Handle())
	rest.GET("/conversations/:conversation_id/messages", historyCtl.Handle())
	rest.POST("/conversations/:conversation_id/participants", addCtl.Handle())
	rest.DELETE("/conversations/:conversation_id/participants/:user_id", removeCtl.Handle())
	rest.GET("/messages/unread_count", unreadCtl.Handle())
	rest.DELETE("/messages/:message_id", deleteMsgCtl.Handle())
	rest.POST("/attachments", attachCtl.Handle())
	rest.POST("/attachments/:attachment_id/associate", associateCtl.Handle())

	if d.Presence != nil {
		onlineCtl := controller.NewOnlineParticipantsController(d.Pool, d.Presence, d.Log)
		rest.GET("/conversations/:conversation_id/participants/online", onlineCtl.Handle())
	}
}

// RegisterWebsocket mounts the realtime gateway at the engine root. The
// gateway does its own authentication after the upgrade so rejections carry
// websocket close codes, not HTTP statuses.
func RegisterWebsocket(r *gin.Engine, d Deps) {
	gateway := NewGateway(d)
	r.GET("/ws/messaging/conversations/:conversation_id", gateway.Handle())
	r.GET("/ws/messaging/conversations/:conversation_id/", gateway.Handle())
}

// NewGateway builds the websocket gateway with its handler chain.
func NewGateway(d Deps) *ws.Gateway {
	convRepo := adapter.NewPgConversationRepository(d.Pool)
	msgRepo := adapter.NewPgMessageRepository(d.Pool)

	handlers := ws.NewHandlers(
		usecase.NewSendMessageUseCase(msgRepo, convRepo),
		usecase.NewMarkMessagesReadUseCase(msgRepo, convRepo),
		usecase.NewLoadHistoryUseCase(msgRepo),
		d.Bus,
		d.Queue,
		d.StoreTimeout,
		d.Log,
	)
	dispatcher := ws.NewDispatcher(handlers, d.Log)

	return ws.NewGateway(
		d.Verifier,
		usecase.NewVerifyMembershipUseCase(convRepo),
		convRepo,
		d.Bus,
		dispatcher,
		d.Presence,
		d.StoreTimeout,
		d.Log,
	)
}
