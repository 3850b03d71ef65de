package realtime

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Hub broadcasts every published event to every connected client. There is no
// per-client filtering and no backlog: a client connected after an event
// misses it and must re-fetch the feed to resynchronize. Delivery is
// at-most-once, best-effort, in-order per connection.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	log     zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{clients: make(map[*Client]struct{}), log: log}
}

// Publish fans evt out to all connected clients. It never blocks: a client
// whose send queue is full is dropped (its connection closed) rather than
// delaying the caller.
func (h *Hub) Publish(evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		h.log.Error().Err(err).Str("event", evt.Type).Msg("marshal event")
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- data:
		default:
			h.log.Warn().Msg("client send queue full, dropping connection")
			c.close()
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Info().Int("clients", n).Msg("client connected")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		h.log.Info().Int("clients", n).Msg("client disconnected")
	}
}
