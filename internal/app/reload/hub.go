package reload

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"assassin/internal/pkg/logx"
)

const broadcastChannelBuffer = 64

// Hub tracks connected clients and broadcasts events to them.
type Hub struct {
	// clients currently connected, keyed by pointer.
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan Event

	// done is closed when Run returns.
	done chan struct{}

	// mu protects clients for ClientCount readers.
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub constructs a Hub. Call Run to start it.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client, 16),
		broadcast:  make(chan Event, broadcastChannelBuffer),
		done:       make(chan struct{}),
		logger:     logx.Component("reload"),
	}
}

// Run serves register, unregister and broadcast requests until ctx is cancelled,
// then closes every client's send queue.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	h.logger.Info().Msg("Live reload hub started.")

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()

			h.logger.Debug().Str("client_id", client.id).Int("total_clients", total).Msg("Client connected.")
			h.deliver(client, NewEvent(TypeConnected, nil))

		case client := <-h.unregister:
			h.remove(client)

		case event := <-h.broadcast:
			h.mu.RLock()
			targets := make([]*Client, 0, len(h.clients))
			for c := range h.clients {
				targets = append(targets, c)
			}
			h.mu.RUnlock()

			h.logger.Info().
				Strs("changed", event.Changed).
				Int("clients", len(targets)).
				Msg("Broadcasting reload.")

			for _, c := range targets {
				h.deliver(c, event)
			}

		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()

			h.logger.Info().Msg("Live reload hub stopped.")
			return
		}
	}
}

// deliver queues event for c, dropping the client when its queue is full.
func (h *Hub) deliver(c *Client, event Event) {
	payload, err := event.encode()
	if err != nil {
		h.logger.Error().Err(err).Str("event_id", event.ID).Msg("Error marshaling event.")
		return
	}

	select {
	case c.send <- payload:
	default:
		h.logger.Warn().Str("client_id", c.id).Msg("Client send queue full, disconnecting.")
		h.remove(c)
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)

	h.logger.Debug().Str("client_id", c.id).Int("total_clients", len(h.clients)).Msg("Client disconnected.")
}

// Register adds c to the hub. It reports false when the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c. It never blocks after the hub has stopped.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues a reload event for the changed files. Events are dropped when
// the queue is full, since a later event reloads the page anyway.
func (h *Hub) Broadcast(changed []string) {
	select {
	case h.broadcast <- NewEvent(TypeReload, changed):
	default:
		h.logger.Warn().Msg("Broadcast channel full, dropping reload event.")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
