// internal/notifications/models.go

package notifications

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUnauthorized         = errors.New("unauthorized")
)

// NotificationType enumerates the engagement events that produce notifications
type NotificationType string

const (
	TypeFollow        NotificationType = "follow"
	TypeLikePost      NotificationType = "like_post"
	TypeLikeReel      NotificationType = "like_reel"
	TypeLikeComment   NotificationType = "like_comment"
	TypeCommentPost   NotificationType = "comment_post"
	TypeCommentReel   NotificationType = "comment_reel"
	TypeCommentReply  NotificationType = "comment_reply"
	TypeStoryView     NotificationType = "story_view"
	TypeStoryReaction NotificationType = "story_reaction"
	TypeMessage       NotificationType = "message"
)

// Ref points a notification at the content that caused it
type Ref struct {
	PostID         *int64 `json:"post_id,omitempty"`
	ReelID         *int64 `json:"reel_id,omitempty"`
	CommentID      *int64 `json:"comment_id,omitempty"`
	StoryID        *int64 `json:"story_id,omitempty"`
	ConversationID *int64 `json:"conversation_id,omitempty"`
}

// Notification is one row in a user's notification inbox
type Notification struct {
	ID          int64            `json:"id" db:"id"`
	RecipientID int64            `json:"recipient_id" db:"recipient_id"`
	ActorID     int64            `json:"actor_id" db:"actor_id"`
	Type        NotificationType `json:"type" db:"type"`
	PostID      *int64           `json:"post_id,omitempty" db:"post_id"`
	ReelID      *int64           `json:"reel_id,omitempty" db:"reel_id"`
	CommentID   *int64           `json:"comment_id,omitempty" db:"comment_id"`
	StoryID     *int64           `json:"story_id,omitempty" db:"story_id"`
	ConversationID *int64        `json:"conversation_id,omitempty" db:"conversation_id"`
	IsRead      bool             `json:"is_read" db:"is_read"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`

	Actor *Actor `json:"actor,omitempty" db:"-"`
}

// Actor is the user who triggered the notification
type Actor struct {
	ID             int64  `json:"id" db:"id"`
	Username       string `json:"username" db:"username"`
	FullName       string `json:"full_name" db:"full_name"`
	ProfilePicture string `json:"profile_picture" db:"profile_picture"`
}

// Publisher is the narrow interface engagement code depends on.
// Notify persists a notification and best-effort pushes it live.
type Publisher interface {
	Notify(ctx context.Context, typ NotificationType, recipientID, actorID int64, ref Ref) error
}

// ListResponse is the paginated inbox payload
type ListResponse struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int             `json:"unread_count"`
	Page          int             `json:"page"`
	HasMore       bool            `json:"has_more"`
}

type MarkReadRequest struct {
	NotificationIDs []int64 `json:"notification_ids" validate:"required,min=1"`
}
