// internal/users/models.go

package users

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameTaken  = errors.New("username is already taken")
	ErrSelfFollow     = errors.New("cannot follow yourself")
	ErrPrivateProfile = errors.New("this profile is private")
)

// Profile is a user as seen by other users, counts included
type Profile struct {
	ID             int64     `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	FullName       string    `json:"full_name" db:"full_name"`
	Bio            string    `json:"bio" db:"bio"`
	Location       string    `json:"location" db:"location"`
	ProfilePicture string    `json:"profile_picture" db:"profile_picture"`
	CoverPhoto     string    `json:"cover_photo" db:"cover_photo"`
	IsVerified     bool      `json:"is_verified" db:"is_verified"`
	IsPrivate      bool      `json:"is_private" db:"is_private"`
	FollowersCount int       `json:"followers_count" db:"followers_count"`
	FollowingCount int       `json:"following_count" db:"following_count"`
	PostsCount     int       `json:"posts_count" db:"posts_count"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`

	// IsFollowing is relative to the viewer; false for anonymous requests
	IsFollowing bool `json:"is_following"`
}

// Summary is the compact shape used in follower lists and search results
type Summary struct {
	ID             int64  `json:"id" db:"id"`
	Username       string `json:"username" db:"username"`
	FullName       string `json:"full_name" db:"full_name"`
	ProfilePicture string `json:"profile_picture" db:"profile_picture"`
	IsVerified     bool   `json:"is_verified" db:"is_verified"`
}

type UpdateProfileRequest struct {
	Username       *string `json:"username,omitempty" validate:"omitempty,min=3,max=30,alphanum"`
	FullName       *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=100"`
	Bio            *string `json:"bio,omitempty" validate:"omitempty,max=300"`
	Location       *string `json:"location,omitempty" validate:"omitempty,max=100"`
	ProfilePicture *string `json:"profile_picture,omitempty" validate:"omitempty,url"`
	CoverPhoto     *string `json:"cover_photo,omitempty" validate:"omitempty,url"`
}

type PrivacyRequest struct {
	IsPrivate bool `json:"is_private"`
}

// FollowResponse reports the state after a follow toggle
type FollowResponse struct {
	Following      bool `json:"following"`
	FollowersCount int  `json:"followers_count"`
}

type SearchResponse struct {
	Users   []*Summary `json:"users"`
	Page    int        `json:"page"`
	HasMore bool       `json:"has_more"`
}

type ListResponse struct {
	Users   []*Summary `json:"users"`
	Page    int        `json:"page"`
	HasMore bool       `json:"has_more"`
}
