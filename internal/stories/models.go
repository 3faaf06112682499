// internal/stories/models.go

package stories

import (
	"errors"
	"time"
)

var (
	ErrStoryNotFound  = errors.New("story not found or expired")
	ErrNotStoryOwner  = errors.New("you do not own this story")
	ErrPrivateAuthor  = errors.New("this profile is private")
	ErrNoMedia        = errors.New("a story needs at least one media file")
	ErrSelfView       = errors.New("cannot record a view on your own story")
)

type Author struct {
	ID             int64  `json:"id" db:"id"`
	Username       string `json:"username" db:"username"`
	FullName       string `json:"full_name" db:"full_name"`
	ProfilePicture string `json:"profile_picture" db:"profile_picture"`
	IsVerified     bool   `json:"is_verified" db:"is_verified"`
}

type Media struct {
	ID        int64  `json:"id" db:"id"`
	StoryID   int64  `json:"-" db:"story_id"`
	MediaURL  string `json:"media_url" db:"media_url"`
	MediaType string `json:"media_type" db:"media_type"`
	Position  int    `json:"position" db:"position"`
}

// Story is only ever surfaced while expires_at is in the future
type Story struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	Caption    string    `json:"caption" db:"caption"`
	ExpiresAt  time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	ViewsCount int       `json:"views_count" db:"views_count"`
	Viewed     bool      `json:"viewed" db:"viewed"`
	Author     Author    `json:"author" db:"author"`
	Media      []Media   `json:"media"`
}

type Reaction struct {
	ID        int64     `json:"id" db:"id"`
	StoryID   int64     `json:"story_id" db:"story_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Emoji     string    `json:"emoji" db:"emoji"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type ReactRequest struct {
	Emoji string `json:"emoji" validate:"required,max=50"`
}

// Viewer is one entry in the owner-only view list
type Viewer struct {
	ID             int64     `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	FullName       string    `json:"full_name" db:"full_name"`
	ProfilePicture string    `json:"profile_picture" db:"profile_picture"`
	ViewedAt       time.Time `json:"viewed_at" db:"viewed_at"`
}

// FeedGroup bundles one author's active stories for the story tray
type FeedGroup struct {
	Author  Author   `json:"author"`
	Stories []*Story `json:"stories"`
}
