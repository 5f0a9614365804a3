package websocket

import (
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Hub pushes live earnings and balance updates to connected dashboards.
// Messages can go to everyone or to the sessions of a single user.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Clients indexed by user, one user may have several sessions.
	byUser map[string]map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

type Client struct {
	hub *Hub
	// The websocket connection.
	conn *websocket.Conn
	// Buffered channel of outbound messages.
	send chan []byte
	// User ID
	userID string
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		byUser:     make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if h.byUser[client.userID] == nil {
				h.byUser[client.userID] = make(map[*Client]bool)
			}
			h.byUser[client.userID][client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.drop(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop removes a client from both indexes. Caller holds the lock.
func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	if sessions := h.byUser[client.userID]; sessions != nil {
		delete(sessions, client)
		if len(sessions) == 0 {
			delete(h.byUser, client.userID)
		}
	}
	close(client.send)
}

// Broadcast sends a message to every connected client.
func (h *Hub) Broadcast(message []byte) {
	h.broadcast <- message
}

// SendToUser delivers a message to all sessions of one user.
// Unknown users are a no-op.
func (h *Hub) SendToUser(userID string, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.byUser[userID] {
		select {
		case client.send <- message:
		default:
			h.drop(client)
		}
	}
}

func (h *Hub) AddClient(conn *websocket.Conn, userID string) {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 256), userID: userID}
	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		// The dashboard stream is push only, but the read loop keeps the
		// connection alive and handles control frames.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)

		// Drain anything queued behind this message into the same frame.
		n := len(c.send)
		for i := 0; i < n; i++ {
			w.Write(<-c.send)
		}

		if err := w.Close(); err != nil {
			return
		}
	}
	// The hub closed the channel.
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
