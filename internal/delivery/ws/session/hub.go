package ws_session

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/humanbelnik/kinoswap/matchclient/internal/model"
	usecase_swipe "github.com/humanbelnik/kinoswap/matchclient/internal/usecase/swipe"
)

const (
	EventSnapshot     = "SNAPSHOT"
	EventComplete     = "MATCHING_COMPLETE"
	EventSessionEnded = "SESSION_ENDED"
	EventError        = "ERROR"
)

const (
	sendBuffer = 64
	writeWait  = 5 * time.Second
)

type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type Client struct {
	ID        string
	Conn      *websocket.Conn
	Send      chan []byte
	SessionID model.ID
}

func NewClient(conn *websocket.Conn, sessionID model.ID) *Client {
	return &Client{
		ID:        uuid.NewString(),
		Conn:      conn,
		Send:      make(chan []byte, sendBuffer),
		SessionID: sessionID,
	}
}

// Hub fans coordinator updates out to the local UIs watching a session.
type Hub struct {
	mu       sync.RWMutex
	sessions map[model.ID]map[*Client]bool
	logger   *slog.Logger
}

func New(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		sessions: make(map[model.ID]map[*Client]bool),
		logger:   logger,
	}
}

func (h *Hub) RegisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[client.SessionID]; !ok {
		h.sessions[client.SessionID] = make(map[*Client]bool)
	}
	h.sessions[client.SessionID][client] = true

	h.logger.Info("client registered", "session_id", client.SessionID, "client_id", client.ID)
}

func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.sessions[client.SessionID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.sessions, client.SessionID)
	}
	h.logger.Info("client unregistered", "session_id", client.SessionID, "client_id", client.ID)
}

func (h *Hub) ClientsCount(sessionID model.ID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// Broadcast drops clients whose buffer is full.
func (h *Hub) Broadcast(sessionID model.ID, event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to encode event", "type", event.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.sessions[sessionID] {
		select {
		case client.Send <- message:
		default:
			h.logger.Warn("client too slow, dropping", "client_id", client.ID)
			h.removeLocked(client)
		}
	}
}

// Listener forwards the coordinator of sessionID to its watchers.
func (h *Hub) Listener(sessionID model.ID) usecase_swipe.Listener {
	return usecase_swipe.Listener{
		OnStateChange: func(s usecase_swipe.Snapshot) {
			h.Broadcast(sessionID, Event{Type: EventSnapshot, Payload: s})
		},
		OnProgress: func(s usecase_swipe.Snapshot) {
			h.Broadcast(sessionID, Event{Type: EventSnapshot, Payload: s})
		},
		OnComplete: func(r model.Results) {
			h.Broadcast(sessionID, Event{Type: EventComplete, Payload: r})
		},
		OnSessionEnded: func(p model.SessionEndedPayload) {
			h.Broadcast(sessionID, Event{Type: EventSessionEnded, Payload: p})
		},
		OnError: func(err error) {
			h.Broadcast(sessionID, Event{Type: EventError, Payload: map[string]string{"message": err.Error()}})
		},
	}
}

func (h *Hub) StartClientReading(client *Client) {
	defer func() {
		h.RemoveClient(client)
		_ = client.Conn.Close()
	}()

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) StartClientWriting(client *Client) {
	defer func() { _ = client.Conn.Close() }()

	for message := range client.Send {
		_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}
