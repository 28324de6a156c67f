package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"solarhub/internal/service"
	"solarhub/internal/stream"
)

// StreamHandler serves the live application list over WebSocket.
type StreamHandler struct {
	applications service.ApplicationService
	hub          *stream.Hub
	upgrader     *websocket.Upgrader
	shutdown     context.Context
	log          *zap.Logger
}

// NewStreamHandler creates a new StreamHandler. Streams end when shutdown
// is canceled.
func NewStreamHandler(shutdown context.Context, applications service.ApplicationService, hub *stream.Hub, origins []string, log *zap.Logger) *StreamHandler {
	return &StreamHandler{
		applications: applications,
		hub:          hub,
		upgrader:     stream.NewUpgrader(origins),
		shutdown:     shutdown,
		log:          log,
	}
}

// Stream handles GET /api/v1/applications/stream
// @Summary Live list of own applications
// @Description Upgrades to WebSocket. The current list is sent immediately and again after every change. Authenticate with ?token= when headers cannot be set.
// @Tags applications
// @Param token query string false "Access token"
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /applications/stream [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	caller, ok := extractCaller(c)
	if !ok {
		return
	}

	// The subscription must outlive the upgraded request's context only as
	// long as the server runs.
	ctx, cancel := context.WithCancel(h.shutdown)
	defer cancel()

	sub, err := h.applications.Subscribe(ctx, caller.UserID)
	if err != nil {
		HandleError(c, err)
		return
	}
	defer sub.Cancel()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// The upgrader has already written an HTTP error.
		h.log.Warn("streamHandler.Stream: upgrade failed", zap.Error(err))
		return
	}
	h.hub.Register(caller.UserID, conn)
	defer h.hub.Unregister(caller.UserID, conn)

	h.log.Debug("streamHandler.Stream: client connected", zap.String("user_id", caller.UserID.String()))
	if err := stream.Pump(ctx, conn, sub.C, streamViews); err != nil && !errors.Is(err, context.Canceled) {
		h.log.Debug("streamHandler.Stream: stream ended", zap.String("user_id", caller.UserID.String()), zap.Error(err))
	}
}
