package websocket

import (
	"context"
	"encoding/json"

	"model-notes-be/internal/pkg/logger"
	"model-notes-be/pkg/events"
)

// Hub fans progress events out to every connected websocket client. The
// client set is owned by the Run goroutine.
type Hub struct {
	clients map[*Client]struct{}

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Closed when Run returns so pumps never block on a stopped hub.
	done chan struct{}

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     log,
	}
}

// Run serves registrations and forwards updates until ctx is done or the
// updates channel closes. Remaining clients are disconnected on return.
func (h *Hub) Run(ctx context.Context, updates <-chan events.BaseEvent) {
	defer func() {
		for client := range h.clients {
			h.remove(client)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.logger.Debug("Hub", "Client registered", map[string]interface{}{"client_id": client.ID})

		case client := <-h.unregister:
			h.remove(client)

		case evt, ok := <-updates:
			if !ok {
				return
			}
			h.broadcast(evt)
		}
	}
}

func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
	h.logger.Debug("Hub", "Client unregistered", map[string]interface{}{"client_id": client.ID})
}

func (h *Hub) broadcast(evt events.BaseEvent) {
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}

	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"client_id": client.ID})
			h.remove(client)
		}
	}
}

func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
