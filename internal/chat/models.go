// internal/chat/models.go

package chat

import (
	"errors"
	"time"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotMember            = errors.New("you are not part of this conversation")
	ErrSelfMessage          = errors.New("cannot message yourself")
	ErrRecipientNotFound    = errors.New("recipient not found")
	ErrEmptyMessage         = errors.New("message content is required")
)

// Peer is the other member of a conversation
type Peer struct {
	ID             int64  `json:"id" db:"id"`
	Username       string `json:"username" db:"username"`
	FullName       string `json:"full_name" db:"full_name"`
	ProfilePicture string `json:"profile_picture" db:"profile_picture"`
}

type Message struct {
	ID             int64     `json:"id" db:"id"`
	ConversationID int64     `json:"conversation_id" db:"conversation_id"`
	SenderID       int64     `json:"sender_id" db:"sender_id"`
	Content        string    `json:"content" db:"content"`
	IsRead         bool      `json:"is_read" db:"is_read"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Conversation pairs two users. Members are stored ordered by id so the
// pair is unique regardless of who started the thread.
type Conversation struct {
	ID          int64     `json:"id" db:"id"`
	MemberA     int64     `json:"-" db:"member_a"`
	MemberB     int64     `json:"-" db:"member_b"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	Peer        Peer      `json:"peer" db:"peer"`
	LastMessage *Message  `json:"last_message,omitempty" db:"-"`
	UnreadCount int       `json:"unread_count" db:"unread_count"`
}

type SendMessageRequest struct {
	RecipientID int64  `json:"recipient_id" validate:"required"`
	Content     string `json:"content" validate:"required,min=1,max=2000"`
}

type ConversationListResponse struct {
	Conversations []*Conversation `json:"conversations"`
	Page          int             `json:"page"`
	HasMore       bool            `json:"has_more"`
}

type MessageListResponse struct {
	Messages []*Message `json:"messages"`
	Page     int        `json:"page"`
	HasMore  bool       `json:"has_more"`
}
