// internal/chat/ws.go
// Websocket-originated chat events

package chat

import (
	"context"
	"encoding/json"
	"log"

	"github.com/vibelyhq/vibely-backend/internal/realtime"
)

// WSHandler adapts inbound websocket events to the chat service. It is
// registered on the hub at startup.
type WSHandler struct {
	service Service
}

func NewWSHandler(service Service) *WSHandler {
	return &WSHandler{service: service}
}

type inboundPayload struct {
	ConversationID int64  `json:"conversation_id"`
	RecipientID    int64  `json:"recipient_id"`
	Content        string `json:"content"`
}

func (h *WSHandler) HandleInbound(ctx context.Context, userID int64, event realtime.Event) {
	var payload inboundPayload
	if raw, err := json.Marshal(event.Payload); err == nil {
		if err := json.Unmarshal(raw, &payload); err != nil {
			log.Printf("malformed %q payload from user %d: %v", event.Type, userID, err)
			return
		}
	}

	var err error
	switch event.Type {
	case realtime.InboundSendMessage:
		if payload.ConversationID != 0 {
			_, err = h.service.SendToConversation(ctx, userID, payload.ConversationID, payload.Content)
		} else {
			_, err = h.service.SendMessage(ctx, userID, payload.RecipientID, payload.Content)
		}
	case realtime.InboundTyping:
		err = h.service.NotifyTyping(ctx, userID, payload.ConversationID)
	case realtime.InboundMessageRead:
		err = h.service.MarkRead(ctx, userID, payload.ConversationID)
	default:
		log.Printf("unknown websocket event %q from user %d", event.Type, userID)
		return
	}

	if err != nil {
		log.Printf("websocket event %q from user %d failed: %v", event.Type, userID, err)
	}
}
