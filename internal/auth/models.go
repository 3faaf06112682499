// internal/auth/models.go
package auth

import (
	"errors"
	"time"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrSessionNotFound    = errors.New("session not found")
)

// User is the account record owned by this package
type User struct {
	ID             int64      `json:"id" db:"id"`
	Email          string     `json:"email" db:"email"`
	Username       string     `json:"username" db:"username"`
	FullName       string     `json:"full_name" db:"full_name"`
	PasswordHash   string     `json:"-" db:"password_hash"`
	Bio            string     `json:"bio" db:"bio"`
	Location       string     `json:"location" db:"location"`
	ProfilePicture string     `json:"profile_picture" db:"profile_picture"`
	CoverPhoto     string     `json:"cover_photo" db:"cover_photo"`
	IsVerified     bool       `json:"is_verified" db:"is_verified"`
	IsPrivate      bool       `json:"is_private" db:"is_private"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`

	VerifyTokenHash      *string    `json:"-" db:"verify_token_hash"`
	VerifyTokenExpiresAt *time.Time `json:"-" db:"verify_token_expires_at"`
	ResetTokenHash       *string    `json:"-" db:"reset_token_hash"`
	ResetTokenExpiresAt  *time.Time `json:"-" db:"reset_token_expires_at"`
}

// Session stores a refresh token issued at login
type Session struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	RefreshToken string    `json:"-" db:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
	FullName string `json:"full_name" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// TokenPair is returned on login and refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User   *User      `json:"user"`
	Tokens *TokenPair `json:"tokens,omitempty"`
}
