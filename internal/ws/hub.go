// Package ws tracks live browser connections and fans out graph update
// events to them. Clients subscribe to collections; events for a collection
// reach only its subscribers, while unscoped events reach everyone.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/net/websocket"

	"github.com/codelens-dev/codelens/pkg/logger"
)

const pingInterval = 30 * time.Second

// Event is one message pushed to connected clients.
type Event struct {
	Type       string `json:"type"`
	Collection string `json:"collection,omitempty"`
	Data       any    `json:"data,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// Status is a snapshot of the hub's registry.
type Status struct {
	Connections   int                 `json:"connections"`
	ClientIDs     []string            `json:"client_ids"`
	Subscriptions map[string][]string `json:"subscriptions"`
}

type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return websocket.Message.Send(c.conn, string(data))
}

// Hub is the connection registry. A single Hub instance is shared between
// the HTTP handlers and the broadcast endpoint the worker reports to.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
	// collection name -> set of subscribed client IDs
	subscriptions map[string]map[string]bool
	done          chan struct{}
	once          sync.Once
}

func NewHub() *Hub {
	h := &Hub{
		clients:       make(map[string]*client),
		subscriptions: make(map[string]map[string]bool),
		done:          make(chan struct{}),
	}
	go h.pingLoop()
	return h
}

// Register adds a connection and returns its client ID. When clientID is
// empty a random one is assigned. A reconnect under the same ID replaces
// the old connection but keeps its subscriptions.
func (h *Hub) Register(conn *websocket.Conn, clientID string) string {
	if clientID == "" {
		id, err := gonanoid.New()
		if err != nil {
			id = time.Now().Format("20060102150405.000000000")
		}
		clientID = id
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[clientID]; ok {
		old.conn.Close()
	}
	h.clients[clientID] = &client{id: clientID, conn: conn}
	logger.Debug("[WS] Client connected", "client_id", clientID, "total", len(h.clients))
	return clientID
}

// Unregister removes a connection and its subscriptions. Safe to call for
// already removed IDs.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[clientID]
	if !ok {
		return
	}
	delete(h.clients, clientID)
	for collection, subscribers := range h.subscriptions {
		delete(subscribers, clientID)
		if len(subscribers) == 0 {
			delete(h.subscriptions, collection)
		}
	}
	c.conn.Close()
	logger.Debug("[WS] Client disconnected", "client_id", clientID, "total", len(h.clients))
}

// Subscribe adds the client to a collection's subscriber set.
func (h *Hub) Subscribe(clientID, collection string) {
	if collection == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[clientID]; !ok {
		return
	}
	if h.subscriptions[collection] == nil {
		h.subscriptions[collection] = make(map[string]bool)
	}
	h.subscriptions[collection][clientID] = true
	logger.Debug("[WS] Client subscribed", "client_id", clientID, "collection", collection)
}

// Unsubscribe removes the client from a collection's subscriber set.
func (h *Hub) Unsubscribe(clientID, collection string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subscribers, ok := h.subscriptions[collection]; ok {
		delete(subscribers, clientID)
		if len(subscribers) == 0 {
			delete(h.subscriptions, collection)
		}
	}
}

// Broadcast sends an event to every connected client. Connections that fail
// to accept the write are dropped from the registry.
func (h *Hub) Broadcast(eventType string, data any) {
	h.deliver(Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, h.snapshot())
}

// BroadcastToCollection sends an event to the collection's subscribers only.
func (h *Hub) BroadcastToCollection(collection, eventType string, data any) {
	h.deliver(Event{
		Type:       eventType,
		Collection: collection,
		Data:       data,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}, h.subscribers(collection))
}

func (h *Hub) deliver(event Event, targets []*client) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("[WS] Failed to marshal event", "type", event.Type, "err", err)
		return
	}
	for _, c := range targets {
		if err := c.send(payload); err != nil {
			logger.Warn("[WS] Dropping unresponsive client", "client_id", c.id, "err", err)
			h.Unregister(c.id)
		}
	}
}

// ClientCount returns the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ClientIDs returns the IDs of all live connections.
func (h *Hub) ClientIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

// Snapshot returns the current registry state.
func (h *Hub) Snapshot() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	status := Status{
		Connections:   len(h.clients),
		ClientIDs:     make([]string, 0, len(h.clients)),
		Subscriptions: make(map[string][]string, len(h.subscriptions)),
	}
	for id := range h.clients {
		status.ClientIDs = append(status.ClientIDs, id)
	}
	for collection, subscribers := range h.subscriptions {
		ids := make([]string, 0, len(subscribers))
		for id := range subscribers {
			ids = append(ids, id)
		}
		status.Subscriptions[collection] = ids
	}
	return status
}

// Close stops the ping loop and drops all connections.
func (h *Hub) Close() {
	h.once.Do(func() {
		close(h.done)
	})
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.conn.Close()
		delete(h.clients, id)
	}
	h.subscriptions = make(map[string]map[string]bool)
}

func (h *Hub) snapshot() []*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	return clients
}

func (h *Hub) subscribers(collection string) []*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	subscribers := h.subscriptions[collection]
	clients := make([]*client, 0, len(subscribers))
	for id := range subscribers {
		if c, ok := h.clients[id]; ok {
			clients = append(clients, c)
		}
	}
	return clients
}

func (h *Hub) pingLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.Broadcast("ping", nil)
		}
	}
}
