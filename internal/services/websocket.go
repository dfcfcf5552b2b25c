package services

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/ridelink/ridelink-backend/internal/models"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// origin checks are left to the auth middleware in front
		return true
	},
}

// RideStatusEvent is broadcast to subscribers of a ride when it reaches a
// terminal status.
type RideStatusEvent struct {
	RideID      uint              `json:"rideId"`
	NewStatus   models.RideStatus `json:"newStatus"`
	RideDetails *models.Ride      `json:"rideDetails"`
}

// EventEmitter is the notification capability handed to the ride service.
// Implementations must never block the caller; delivery is best effort.
type EventEmitter interface {
	EmitRideStatusUpdated(event RideStatusEvent)
}

// WebSocketMessage is the envelope for all messages on the realtime channel.
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client is one connected socket together with its ride subscriptions.
type Client struct {
	ID   uint
	Role string
	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub

	// rides this client is subscribed to
	rides map[uint]bool
}

// Hub maintains the set of active clients and routes ride events to the
// clients subscribed to each ride.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run owns the client set, applying register and unregister requests until
// the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			h.log.Info("client connected", zap.Uint("userId", client.ID), zap.String("role", client.Role))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			h.log.Info("client disconnected", zap.Uint("userId", client.ID))
		}
	}
}

// EmitRideStatusUpdated delivers a terminal status change to every client
// subscribed to the ride. Slow clients are dropped rather than blocked on.
func (h *Hub) EmitRideStatusUpdated(event RideStatusEvent) {
	message := WebSocketMessage{
		Type: "ride_status_updated",
		Data: event,
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.log.Error("failed to marshal ride status event", zap.Error(err))
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if !client.rides[event.RideID] {
			continue
		}
		select {
		case client.Send <- data:
		default:
			h.log.Warn("dropping slow client", zap.Uint("userId", client.ID))
		}
	}
}

// subscribeRide marks a client as interested in one ride's events.
func (h *Hub) subscribeRide(c *Client, rideID uint) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	c.rides[rideID] = true
}

func (h *Hub) unsubscribeRide(c *Client, rideID uint) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(c.rides, rideID)
}

// HandleWebSocket upgrades an authenticated request and attaches the
// resulting client to the hub.
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID uint, role string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Error("websocket upgrade error", zap.Error(err))
		return
	}

	client := &Client{
		ID:    userID,
		Role:  role,
		Conn:  conn,
		Send:  make(chan []byte, 256),
		Hub:   hub,
		rides: make(map[uint]bool),
	}

	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}

type subscribePayload struct {
	RideID uint `json:"rideId"`
}

// readPump consumes subscription messages until the peer goes away.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Warn("websocket read error", zap.Error(err))
			}
			break
		}

		var wsMessage WebSocketMessage
		if err := json.Unmarshal(message, &wsMessage); err != nil {
			c.Hub.log.Warn("invalid websocket message", zap.Error(err))
			continue
		}

		// Clients manage their own ride subscriptions; everything else on the
		// channel is server-to-client.
		switch wsMessage.Type {
		case "subscribe_ride":
			if rideID, ok := ridePayload(wsMessage.Data); ok {
				c.Hub.subscribeRide(c, rideID)
			}
		case "unsubscribe_ride":
			if rideID, ok := ridePayload(wsMessage.Data); ok {
				c.Hub.unsubscribeRide(c, rideID)
			}
		}
	}
}

func ridePayload(data interface{}) (uint, bool) {
	raw, err := json.Marshal(data)
	if err != nil {
		return 0, false
	}
	var payload subscribePayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.RideID == 0 {
		return 0, false
	}
	return payload.RideID, true
}

// writePump drains the Send channel onto the wire.
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			c.Hub.log.Warn("websocket write error", zap.Error(err))
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
