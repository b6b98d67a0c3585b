package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/tourofcourses/internal/app/models/dto"
)

// SessionFactory builds the session for a new connection. send queues a
// frame to the browser and reports false once the connection is gone.
// Returning an error rejects the connection before the upgrade.
type SessionFactory func(c *gin.Context, clientID string, send func([]byte) bool) (Session, error)

// Handler for WebSocket connections
type Handler struct {
	hub        *Hub
	newSession SessionFactory
	logger     zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, newSession SessionFactory, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:        hub,
		newSession: newSession,
		logger:     logger,
	}
}

// HandleConnection godoc
// @Summary Open a live UI session
// @Description Upgrades the connection to a WebSocket carrying browser events in and rendered frames out
// @Tags live
// @Param path query string false "Initial UI path" default(/dashboard)
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 400 {object} dto.ErrorResponse "Unknown UI path"
// @Failure 503 {object} dto.ErrorResponse "Server shutting down"
// @Router /live [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	select {
	case <-h.hub.Done():
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeServiceUnavailable, "Server is shutting down")))
		return
	default:
	}

	client := newClient(h.hub, uuid.NewString(), h.logger)

	session, err := h.newSession(c, client.id, client.Send)
	if err != nil {
		h.logger.Warn().Err(err).Str("path", c.Query("path")).Msg("Rejected live session")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))
		return
	}
	client.session = session

	// Upgrade HTTP connection to WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Str("clientID", client.id).Msg("Failed to upgrade connection to WebSocket")
		session.Close()
		return
	}
	client.conn = conn

	if !h.hub.Register(client) {
		session.Close()
		conn.Close()
		return
	}

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("clientID", client.id).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
