// school-erp/internal/handlers/notify_hub.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"school-erp/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GlobalHub is the single notification hub for the whole application.
var GlobalHub = NewHub()

// NotificationEvent is the payload pushed to connected dashboard clients.
type NotificationEvent struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID uint
}

// Hub fans fee events out to every connected client.
type Hub struct {
	clients    map[uint]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uint]*Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.userID] = client
			h.mu.Unlock()
			slog.Info("Notification client registered", "user_id", client.userID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.userID]; ok {
				delete(h.clients, client.userID)
				close(client.send)
			}
			h.mu.Unlock()
			slog.Info("Notification client unregistered", "user_id", client.userID)

		case messageData := <-h.broadcast:
			h.mu.Lock()
			for userID, client := range h.clients {
				select {
				case client.send <- messageData:
				default:
					close(client.send)
					delete(h.clients, userID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastFeeCollected pushes a fee.collected event to all connected
// clients. Never blocks the caller.
func BroadcastFeeCollected(txn *models.FeeTransaction) {
	event := NotificationEvent{
		Type:       "fee.collected",
		OccurredAt: time.Now(),
		Payload: gin.H{
			"receipt_no":  txn.ReceiptNo,
			"student_id":  txn.StudentID,
			"fee_type_id": txn.FeeTypeID,
			"amount_paid": txn.AmountPaid,
		},
	}
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal notification event", "error", err)
		return
	}
	select {
	case GlobalHub.broadcast <- data:
	default:
		slog.Warn("Notification broadcast dropped, hub not draining")
	}
}

// NotificationsWSEndpoint upgrades the request and attaches the client to
// the hub until the connection closes.
func NotificationsWSEndpoint(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:    GlobalHub,
		conn:   conn,
		send:   make(chan []byte, 16),
		userID: currentUserID(c),
	}
	GlobalHub.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// readPump discards inbound frames; the socket is push-only. Reading is
// still required to process control frames and detect closure.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
