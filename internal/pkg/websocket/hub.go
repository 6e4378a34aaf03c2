package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	// Registered clients organized by team ID
	clients map[int64]map[*Client]bool

	// Channel for inbound messages from clients
	broadcast chan *Message

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	mu sync.RWMutex

	listenersMu      sync.RWMutex
	messageListeners []chan *Message

	logger zerolog.Logger
}

// Message represents a message sent over WebSocket
type Message struct {
	// Type of message: "text", "file"
	Type string `json:"type"`

	// Team this message belongs to
	TeamID int64 `json:"teamId"`

	// User who sent the message
	SenderID int64 `json:"senderId"`

	// Message content
	Content string `json:"content"`

	// Link to file if this is a file message
	FileURL string `json:"fileUrl,omitempty"`

	// Timestamp when the message was sent
	Timestamp time.Time `json:"timestamp"`

	// Message ID from the database
	ID int64 `json:"id,omitempty"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:        make(chan *Message),
		register:         make(chan *Client),
		unregister:       make(chan *Client),
		clients:          make(map[int64]map[*Client]bool),
		messageListeners: []chan *Message{},
		logger:           logger,
	}
}

// Run starts the hub, handling client registrations and broadcasts
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	teamID := client.teamID
	if _, ok := h.clients[teamID]; !ok {
		h.clients[teamID] = make(map[*Client]bool)
	}
	h.clients[teamID][client] = true

	h.logger.Info().
		Int64("teamID", teamID).
		Int64("userID", client.userID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	teamID := client.teamID
	if _, ok := h.clients[teamID]; ok {
		if _, ok := h.clients[teamID][client]; ok {
			delete(h.clients[teamID], client)
			close(client.send)

			// If no more clients for this team, clean up
			if len(h.clients[teamID]) == 0 {
				delete(h.clients, teamID)
			}

			h.logger.Info().
				Int64("teamID", teamID).
				Int64("userID", client.userID).
				Msg("Client unregistered")
		}
	}
}

// broadcastMessage sends a message to all clients connected to its team
func (h *Hub) broadcastMessage(message *Message) {
	h.notifyMessageListeners(message)

	h.mu.RLock()
	defer h.mu.RUnlock()

	teamID := message.TeamID
	clients, ok := h.clients[teamID]
	if !ok {
		h.logger.Debug().
			Int64("teamID", teamID).
			Msg("No clients on team for broadcast")
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("teamID", teamID).
			Msg("Failed to marshal message for broadcast")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Client's send buffer is full, they might be slow or
			// disconnected. Unregister and close their connection.
			h.mu.RUnlock()
			h.unregister <- client
			h.mu.RLock()
		}
	}

	h.logger.Debug().
		Int64("teamID", teamID).
		Int("clientCount", len(clients)).
		Msg("Message broadcasted to team")
}

func (h *Hub) notifyMessageListeners(message *Message) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.messageListeners {
		// Non-blocking send to avoid stalling the hub on slow listeners
		select {
		case listener <- message:
		default:
			h.logger.Warn().Msg("Skipped slow message listener")
		}
	}
}

// BroadcastToTeam sends a message to all connected clients on a team
func (h *Hub) BroadcastToTeam(message *Message) {
	h.broadcast <- message
}

// GetClientsCount returns the number of connected clients for a team
func (h *Hub) GetClientsCount(teamID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.clients[teamID]; ok {
		return len(clients)
	}
	return 0
}

// AddMessageListener registers a channel to receive all messages
func (h *Hub) AddMessageListener(listener chan *Message) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	h.messageListeners = append(h.messageListeners, listener)
}

// RemoveMessageListener removes a listener from the hub
func (h *Hub) RemoveMessageListener(listener chan *Message) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.messageListeners {
		if l == listener {
			h.messageListeners[i] = h.messageListeners[len(h.messageListeners)-1]
			h.messageListeners = h.messageListeners[:len(h.messageListeners)-1]
			break
		}
	}
}
