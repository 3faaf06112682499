// internal/chat/service.go

package chat

import (
	"context"
	"log"
	"strings"

	"github.com/vibelyhq/vibely-backend/internal/notifications"
	"github.com/vibelyhq/vibely-backend/internal/realtime"
)

type Service interface {
	SendMessage(ctx context.Context, senderID, recipientID int64, content string) (*Message, error)
	SendToConversation(ctx context.Context, senderID, conversationID int64, content string) (*Message, error)
	ListConversations(ctx context.Context, userID int64, page, limit int) (*ConversationListResponse, error)
	ListMessages(ctx context.Context, userID, conversationID int64, page, limit int) (*MessageListResponse, error)
	MarkRead(ctx context.Context, userID, conversationID int64) error
	NotifyTyping(ctx context.Context, userID, conversationID int64) error
}

type service struct {
	repo     Repository
	notifier notifications.Publisher
	gateway  realtime.Gateway
}

func NewService(repo Repository, notifier notifications.Publisher, gateway realtime.Gateway) Service {
	return &service{repo: repo, notifier: notifier, gateway: gateway}
}

// SendMessage starts the conversation if the pair has never talked,
// stores the message, then pushes it live and drops a notification for
// the recipient. Delivery beyond the stored row is best-effort.
func (s *service) SendMessage(ctx context.Context, senderID, recipientID int64, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if senderID == recipientID {
		return nil, ErrSelfMessage
	}

	exists, err := s.repo.UserExists(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRecipientNotFound
	}

	conv, err := s.repo.GetOrCreateConversation(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}

	return s.deliver(ctx, conv, senderID, recipientID, content)
}

// SendToConversation is the websocket path, addressed by conversation
func (s *service) SendToConversation(ctx context.Context, senderID, conversationID int64, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	conv, err := s.memberConversation(ctx, senderID, conversationID)
	if err != nil {
		return nil, err
	}

	return s.deliver(ctx, conv, senderID, peerOf(conv, senderID), content)
}

func (s *service) deliver(ctx context.Context, conv *Conversation, senderID, recipientID int64, content string) (*Message, error) {
	message := &Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        content,
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	if s.gateway != nil {
		s.gateway.Publish(recipientID, realtime.Event{
			Type:    realtime.EventMessage,
			Payload: message,
		})
	}

	if s.notifier != nil {
		ref := notifications.Ref{ConversationID: &conv.ID}
		if err := s.notifier.Notify(ctx, notifications.TypeMessage, recipientID, senderID, ref); err != nil {
			log.Printf("message notification for conversation %d failed: %v", conv.ID, err)
		}
	}

	return message, nil
}

func (s *service) ListConversations(ctx context.Context, userID int64, page, limit int) (*ConversationListResponse, error) {
	offset := (page - 1) * limit
	results, err := s.repo.ListConversations(ctx, userID, limit+1, offset)
	if err != nil {
		return nil, err
	}

	hasMore := len(results) > limit
	if hasMore {
		results = results[:limit]
	}
	return &ConversationListResponse{Conversations: results, Page: page, HasMore: hasMore}, nil
}

func (s *service) ListMessages(ctx context.Context, userID, conversationID int64, page, limit int) (*MessageListResponse, error) {
	if _, err := s.memberConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	results, err := s.repo.ListMessages(ctx, conversationID, limit+1, offset)
	if err != nil {
		return nil, err
	}

	hasMore := len(results) > limit
	if hasMore {
		results = results[:limit]
	}
	return &MessageListResponse{Messages: results, Page: page, HasMore: hasMore}, nil
}

// MarkRead flips the peer's messages to read and tells the peer, so
// their client can render read receipts.
func (s *service) MarkRead(ctx context.Context, userID, conversationID int64) error {
	conv, err := s.memberConversation(ctx, userID, conversationID)
	if err != nil {
		return err
	}

	changed, err := s.repo.MarkMessagesRead(ctx, conversationID, userID)
	if err != nil {
		return err
	}

	if changed > 0 && s.gateway != nil {
		s.gateway.Publish(peerOf(conv, userID), realtime.Event{
			Type: realtime.EventMessageRead,
			Payload: map[string]int64{
				"conversation_id": conversationID,
				"reader_id":       userID,
			},
		})
	}
	return nil
}

// NotifyTyping relays a typing signal to the peer. Nothing is stored.
func (s *service) NotifyTyping(ctx context.Context, userID, conversationID int64) error {
	conv, err := s.memberConversation(ctx, userID, conversationID)
	if err != nil {
		return err
	}

	if s.gateway != nil {
		s.gateway.Publish(peerOf(conv, userID), realtime.Event{
			Type: realtime.EventTyping,
			Payload: map[string]int64{
				"conversation_id": conversationID,
				"user_id":         userID,
			},
		})
	}
	return nil
}

func (s *service) memberConversation(ctx context.Context, userID, conversationID int64) (*Conversation, error) {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.MemberA != userID && conv.MemberB != userID {
		return nil, ErrNotMember
	}
	return conv, nil
}

func peerOf(conv *Conversation, userID int64) int64 {
	if conv.MemberA == userID {
		return conv.MemberB
	}
	return conv.MemberA
}
