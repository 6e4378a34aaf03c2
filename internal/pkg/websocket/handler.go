package websocket

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/selimd/campuslink/internal/app/repositories"
	"github.com/selimd/campuslink/internal/pkg/apperrors"
)

// Handler for WebSocket connections
type Handler struct {
	hub      *Hub
	teamRepo *repositories.TeamRepository
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, teamRepo *repositories.TeamRepository, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		teamRepo: teamRepo,
		logger:   logger,
	}
}

// HandleConnection godoc
// @Summary Establish a WebSocket connection for real-time team chat
// @Description Upgrades the HTTP connection to a WebSocket for live team messaging
// @Tags teams, websocket
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 400 {object} dto.ErrorResponse "Invalid team ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not a team member"
// @Router /teams/{id}/chat/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	teamID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}
	userID, ok := userIDValue.(int64)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	// Only team members may join the chat
	if _, err := h.teamRepo.GetMember(c, teamID, userID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{
			"error": apperrors.NewForbiddenError("only team members can join the chat").Error(),
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("teamID", teamID).
			Int64("userID", userID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
		teamID: teamID,
		logger: h.logger,
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("teamID", teamID).
		Int64("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
