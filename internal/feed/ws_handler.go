package feed

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Message is a WebSocket message scoped to a single symbol.
type Message struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol"`
	Data   any    `json:"data"`
}

// Client is one WebSocket connection subscribed to a single symbol's feed.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	symbol string
}

// Hub fans book and trade updates out to the clients subscribed to each
// symbol. Clients are grouped by symbol so a broadcast only wakes the
// connections that asked for it.
type Hub struct {
	clients    map[string]map[*Client]bool
	broadcast  chan symbolMessage
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

type symbolMessage struct {
	symbol string
	data   []byte
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan symbolMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's dispatch loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			set, ok := h.clients[client.symbol]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[client.symbol] = set
			}
			set[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.clients[client.symbol]; ok {
				if _, ok := set[client]; ok {
					delete(set, client)
					close(client.send)
					if len(set) == 0 {
						delete(h.clients, client.symbol)
					}
				}
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients[m.symbol] {
				select {
				case client.send <- m.data:
				default:
					close(client.send)
					delete(h.clients[m.symbol], client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a message to every client subscribed to msg.Symbol.
func (h *Hub) Broadcast(symbol string, msg Message) {
	msg.Symbol = symbol
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal message: %v", err)
		return
	}

	select {
	case h.broadcast <- symbolMessage{symbol: symbol, data: data}:
	default:
		log.Printf("Broadcast channel full, dropping message for %s", symbol)
	}
}

// ClientCount returns the number of clients subscribed to symbol.
func (h *Hub) ClientCount(symbol string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[symbol])
}

// handleWebSocket handles WebSocket connections at GET /ws?symbol=xxx.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:    s.wsHub,
		conn:   conn,
		send:   make(chan []byte, 256),
		symbol: symbol,
	}

	s.wsHub.register <- client

	go client.writePump()
	go client.readPump()

	msg := Message{Type: "connected", Symbol: symbol, Data: map[string]string{"status": "connected"}}
	data, _ := json.Marshal(msg)
	client.send <- data
}

// writePump sends messages to the WebSocket connection.
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// readPump drains the connection so disconnects are detected; this feed is
// broadcast-only, so incoming client messages are discarded.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}
