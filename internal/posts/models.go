// internal/posts/models.go

package posts

import (
	"errors"
	"time"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("you do not own this post")
	ErrPrivateAuthor = errors.New("this profile is private")
	ErrNoMedia      = errors.New("a post needs at least one media file")
)

// Author is the compact owner shape embedded in post payloads
type Author struct {
	ID             int64  `json:"id" db:"id"`
	Username       string `json:"username" db:"username"`
	FullName       string `json:"full_name" db:"full_name"`
	ProfilePicture string `json:"profile_picture" db:"profile_picture"`
	IsVerified     bool   `json:"is_verified" db:"is_verified"`
}

type Media struct {
	ID       int64  `json:"id" db:"id"`
	PostID   int64  `json:"-" db:"post_id"`
	MediaURL string `json:"media_url" db:"media_url"`
	MediaType string `json:"media_type" db:"media_type"`
	Position int    `json:"position" db:"position"`
}

type Post struct {
	ID            int64     `json:"id" db:"id"`
	UserID        int64     `json:"user_id" db:"user_id"`
	Caption       string    `json:"caption" db:"caption"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
	LikesCount    int       `json:"likes_count" db:"likes_count"`
	CommentsCount int       `json:"comments_count" db:"comments_count"`
	IsLiked       bool      `json:"is_liked" db:"is_liked"`
	Author        Author    `json:"author" db:"author"`
	Media         []Media   `json:"media"`
}

// MediaInput is one uploaded file already stored by the uploader
type MediaInput struct {
	URL  string
	Type string
}

type UpdatePostRequest struct {
	Caption string `json:"caption" validate:"max=2200"`
}

// LikeResponse reports the state after a like toggle
type LikeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

type ListResponse struct {
	Posts   []*Post `json:"posts"`
	Page    int     `json:"page"`
	HasMore bool    `json:"has_more"`
}
