// internal/comments/models.go

package comments

import (
	"errors"
	"time"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrTargetNotFound  = errors.New("post or reel not found")
	ErrNotAllowed      = errors.New("you cannot delete this comment")
	ErrNestedReply     = errors.New("replies cannot be nested")
	ErrParentMismatch  = errors.New("parent comment belongs to different content")
)

type Author struct {
	ID             int64  `json:"id" db:"id"`
	Username       string `json:"username" db:"username"`
	FullName       string `json:"full_name" db:"full_name"`
	ProfilePicture string `json:"profile_picture" db:"profile_picture"`
	IsVerified     bool   `json:"is_verified" db:"is_verified"`
}

// Comment attaches to exactly one post or reel. Replies reference a
// top-level comment through ParentID and never nest further.
type Comment struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	PostID       *int64    `json:"post_id,omitempty" db:"post_id"`
	ReelID       *int64    `json:"reel_id,omitempty" db:"reel_id"`
	ParentID     *int64    `json:"parent_id,omitempty" db:"parent_id"`
	Content      string    `json:"content" db:"content"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	LikesCount   int       `json:"likes_count" db:"likes_count"`
	RepliesCount int       `json:"replies_count" db:"replies_count"`
	IsLiked      bool      `json:"is_liked" db:"is_liked"`
	Author       Author    `json:"author" db:"author"`
}

type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=1000"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

type LikeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

type ListResponse struct {
	Comments []*Comment `json:"comments"`
	Page     int        `json:"page"`
	HasMore  bool       `json:"has_more"`
}
