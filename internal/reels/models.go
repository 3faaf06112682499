// internal/reels/models.go

package reels

import (
	"errors"
	"time"
)

var (
	ErrReelNotFound  = errors.New("reel not found")
	ErrNotReelOwner  = errors.New("you do not own this reel")
	ErrPrivateAuthor = errors.New("this profile is private")
	ErrNoVideo       = errors.New("a reel needs a video file")
)

type Author struct {
	ID             int64  `json:"id" db:"id"`
	Username       string `json:"username" db:"username"`
	FullName       string `json:"full_name" db:"full_name"`
	ProfilePicture string `json:"profile_picture" db:"profile_picture"`
	IsVerified     bool   `json:"is_verified" db:"is_verified"`
}

type Reel struct {
	ID            int64     `json:"id" db:"id"`
	UserID        int64     `json:"user_id" db:"user_id"`
	Caption       string    `json:"caption" db:"caption"`
	VideoURL      string    `json:"video_url" db:"video_url"`
	ThumbnailURL  string    `json:"thumbnail_url" db:"thumbnail_url"`
	Duration      int       `json:"duration" db:"duration"`
	Views         int64     `json:"views" db:"views"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
	LikesCount    int       `json:"likes_count" db:"likes_count"`
	CommentsCount int       `json:"comments_count" db:"comments_count"`
	IsLiked       bool      `json:"is_liked" db:"is_liked"`
	Author        Author    `json:"author" db:"author"`
}

type UpdateReelRequest struct {
	Caption string `json:"caption" validate:"max=2200"`
}

type LikeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// ViewResponse reports the view count after recording a view
type ViewResponse struct {
	Views int64 `json:"views"`
}

type ListResponse struct {
	Reels   []*Reel `json:"reels"`
	Page    int     `json:"page"`
	HasMore bool    `json:"has_more"`
}
