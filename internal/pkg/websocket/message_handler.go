package websocket

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/selimd/campuslink/internal/app/models"
	"github.com/selimd/campuslink/internal/app/repositories"
)

// MessageHandler persists chat messages arriving over WebSocket
type MessageHandler struct {
	teamRepo *repositories.TeamRepository
	hub      *Hub
	logger   zerolog.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(teamRepo *repositories.TeamRepository, hub *Hub, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		teamRepo: teamRepo,
		hub:      hub,
		logger:   logger,
	}
}

// Start begins processing messages from the hub
func (h *MessageHandler) Start() {
	go h.processMessages()
}

func (h *MessageHandler) processMessages() {
	messageChan := make(chan *Message, 64)
	h.hub.AddMessageListener(messageChan)

	for message := range messageChan {
		if message.Type == "text" {
			h.processTextMessage(message)
		}
	}
}

// processTextMessage saves a text message to the database
func (h *MessageHandler) processTextMessage(message *Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg := &models.TeamMessage{
		TeamID:      message.TeamID,
		UserID:      message.SenderID,
		Message:     message.Content,
		MessageType: models.TeamMessageTypeText,
	}

	if err := h.teamRepo.CreateMessage(ctx, msg); err != nil {
		h.logger.Error().
			Err(err).
			Int64("teamID", message.TeamID).
			Int64("senderID", message.SenderID).
			Msg("Failed to save WebSocket message to database")
		return
	}

	message.ID = msg.ID

	h.logger.Debug().
		Int64("messageID", msg.ID).
		Int64("teamID", message.TeamID).
		Msg("WebSocket message saved to database")
}
