// internal/realtime/gateway.go

package realtime

import "context"

// Event is one message pushed to a connected client
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Event types pushed to clients
const (
	EventNotification      = "notification"
	EventMessage           = "message"
	EventTyping            = "typing"
	EventMessageRead       = "message_read"
	EventNotificationsRead = "notifications_read"
)

// Event types received from clients
const (
	InboundSendMessage = "send_message"
	InboundTyping      = "typing"
	InboundMessageRead = "message_read"
)

// Gateway is what the rest of the application sees of the realtime
// layer: fire-and-forget delivery plus a presence check.
type Gateway interface {
	Publish(userID int64, event Event)
	IsOnline(ctx context.Context, userID int64) (bool, error)
}

// InboundHandler processes client-originated events. The hub stays
// transport-only; domain behavior is plugged in at startup.
type InboundHandler interface {
	HandleInbound(ctx context.Context, userID int64, event Event)
}
