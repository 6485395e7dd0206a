package main

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SearchHub fans depth reports out to every connected WebSocket client.
type SearchHub struct {
	mu        sync.Mutex
	clients   map[*SearchClient]struct{}
	broadcast chan DepthReport
}

type SearchClient struct {
	hub  *SearchHub
	conn *websocket.Conn
	send chan []byte
}

func NewSearchHub() *SearchHub {
	return &SearchHub{
		clients:   make(map[*SearchClient]struct{}),
		broadcast: make(chan DepthReport, 32),
	}
}

func (h *SearchHub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case report := <-h.broadcast:
			h.mu.Lock()
			if len(h.clients) == 0 {
				h.mu.Unlock()
				continue
			}
			msg := wsMessage{Type: "depth", Payload: mustMarshal(report)}
			for client := range h.clients {
				client.sendJSON(msg)
			}
			h.mu.Unlock()
		}
	}
}

// Publish never blocks the search; reports are dropped when the hub lags.
func (h *SearchHub) Publish(report DepthReport) {
	select {
	case h.broadcast <- report:
	default:
	}
}

func (h *SearchHub) Register(c *SearchClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *SearchHub) Unregister(c *SearchClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *SearchHub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *SearchClient) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func serveSearchWS(hub *SearchHub, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &SearchClient{hub: hub, conn: conn, send: make(chan []byte, 16)}
	hub.Register(client)

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			return
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			hub.Unregister(client)
			return
		}
	}
}
