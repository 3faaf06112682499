// internal/realtime/hub.go

package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/vibelyhq/vibely-backend/internal/metrics"
)

// Hub fans events out to the websocket connections of individual users.
// All connection state is owned by the Run goroutine; other goroutines
// talk to it through channels only.
type Hub struct {
	clients    map[int64]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	outbound   chan targetedEvent

	presence Presence
	handler  InboundHandler
}

type targetedEvent struct {
	userID int64
	data   []byte
}

func NewHub(presence Presence) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan targetedEvent, 256),
		presence:   presence,
	}
}

// SetInboundHandler must be called before Run
func (h *Hub) SetInboundHandler(handler InboundHandler) {
	h.handler = handler
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			metrics.WebsocketConnections.Inc()

			if err := h.presence.MarkOnline(ctx, client.userID); err != nil {
				log.Printf("presence mark online for user %d failed: %v", client.userID, err)
			}

		case client := <-h.unregister:
			if conns, ok := h.clients[client.userID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.send)
					metrics.WebsocketConnections.Dec()
				}
				if len(conns) == 0 {
					delete(h.clients, client.userID)
					if err := h.presence.MarkOffline(ctx, client.userID); err != nil {
						log.Printf("presence mark offline for user %d failed: %v", client.userID, err)
					}
				}
			}

		case event := <-h.outbound:
			for client := range h.clients[event.userID] {
				select {
				case client.send <- event.data:
				default:
					// Slow consumer, drop the connection
					delete(h.clients[event.userID], client)
					close(client.send)
					metrics.WebsocketConnections.Dec()
				}
			}
		}
	}
}

// Publish delivers an event to every live connection of a user. Events
// for offline users are silently dropped; persistence is the caller's
// concern.
func (h *Hub) Publish(userID int64, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal event %q: %v", event.Type, err)
		return
	}

	select {
	case h.outbound <- targetedEvent{userID: userID, data: data}:
	default:
		log.Printf("outbound queue full, dropping %q event for user %d", event.Type, userID)
	}
}

func (h *Hub) IsOnline(ctx context.Context, userID int64) (bool, error) {
	return h.presence.IsOnline(ctx, userID)
}

func (h *Hub) dispatchInbound(ctx context.Context, userID int64, event Event) {
	if h.handler == nil {
		return
	}
	h.handler.HandleInbound(ctx, userID, event)
}
