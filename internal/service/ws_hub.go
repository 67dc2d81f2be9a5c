package service

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"atb/backend/internal/model"
	"atb/backend/pkg/logger"

	redisHelper "atb/backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client represents one connected dashboard over WebSocket
type Client struct {
	Hub  *WSHub
	Conn *websocket.Conn
	ID   string
	Send chan []byte
}

// WSHub tracks connected real-time subscribers and fans published events
// out to them. Delivery is best-effort: a slow or dead client is dropped
// without affecting the others.
type WSHub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mu         sync.RWMutex

	redisClient *redisHelper.Client
	initialData func() model.WSMessage
	log         *logger.Logger
}

// NewWSHub creates a hub. initialData, when non-nil, is evaluated per
// connection and delivered to the new client before any broadcasts.
func NewWSHub(redisClient *redisHelper.Client, initialData func() model.WSMessage) *WSHub {
	return &WSHub{
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan []byte, 64),
		redisClient: redisClient,
		initialData: initialData,
		log:         logger.GetLogger(),
	}
}

// Run owns the client set; registration, unregistration and broadcast all
// flow through here.
func (h *WSHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Infof("WS client connected: %s", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			h.log.Infof("WS client disconnected: %s", client.ID)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Slow consumer; drop it so the rest keep receiving
					delete(h.clients, client)
					close(client.Send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// SubscriberCount returns the number of connected clients
func (h *WSHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to all connected clients
func (h *WSHub) Broadcast(msg model.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Errorf("Failed to marshal WS broadcast message: %v", err)
		return
	}
	h.broadcast <- data
}

// Deliver sends a message to a single client, best-effort
func (h *WSHub) Deliver(client *Client, msg model.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Errorf("Failed to marshal WS direct message: %v", err)
		return
	}
	select {
	case client.Send <- data:
	default:
		// Buffer full; the client will be dropped by the next broadcast
	}
}

// ReadPump consumes control messages from the client until it disconnects
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Errorf("WS error: %v", err)
			}
			break
		}
	}
}

// WritePump pushes outgoing messages and keepalive pings to the client
func (c *Client) WritePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// StartPubSubListener bridges Redis pub/sub broadcasts into the hub so
// out-of-process publishers can reach connected clients.
func (h *WSHub) StartPubSubListener(ctx context.Context) {
	if h.redisClient == nil {
		return
	}

	pubsub := h.redisClient.Subscribe(ctx, redisHelper.WSBroadcastChannel())
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var wsMsg model.WSMessage
		if err := json.Unmarshal([]byte(msg.Payload), &wsMsg); err == nil {
			h.Broadcast(wsMsg)
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, check origin
	},
}

// ServeWS handles WebSocket upgrade requests
func (h *WSHub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorf("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		Hub:  h,
		Conn: conn,
		ID:   uuid.New().String(),
		Send: make(chan []byte, 256),
	}

	h.register <- client

	go client.WritePump()
	go client.ReadPump()

	if h.initialData != nil {
		h.Deliver(client, h.initialData())
	}
}
