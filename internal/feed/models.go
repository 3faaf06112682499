// internal/feed/models.go

package feed

import (
	"errors"

	"github.com/vibelyhq/vibely-backend/internal/posts"
	"github.com/vibelyhq/vibely-backend/internal/reels"
	"github.com/vibelyhq/vibely-backend/internal/users"
)

var (
	ErrViewerNotFound = errors.New("user not found")
)

const (
	ItemTypePost = "post"
	ItemTypeReel = "reel"
	ItemTypeUser = "user"
)

// Item is one entry in a mixed feed. Exactly one of Post, Reel or User
// is set; users only appear in explore search results.
type Item struct {
	Type string         `json:"type"`
	Post *posts.Post    `json:"post,omitempty"`
	Reel *reels.Reel    `json:"reel,omitempty"`
	User *users.Summary `json:"user,omitempty"`

	score float64
}

// ScoredPost carries the ranking score alongside the post row
type ScoredPost struct {
	posts.Post
	Score float64 `json:"-" db:"score"`
}

// ScoredReel carries the ranking score alongside the reel row
type ScoredReel struct {
	reels.Reel
	Score float64 `json:"-" db:"score"`
}

type Response struct {
	Items   []*Item `json:"items"`
	Page    int     `json:"page"`
	HasMore bool    `json:"has_more"`
}
