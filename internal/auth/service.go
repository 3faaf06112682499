// internal/auth/service.go
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vibelyhq/vibely-backend/internal/common/utils"
)

const tokenLinkExpiry = 15 * time.Minute

// Config holds auth service configuration
type Config struct {
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	BCryptCost         int
	BaseURL            string
}

type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)
	GetUserByID(ctx context.Context, userID int64) (*User, error)
	CleanupExpiredSessions(ctx context.Context) error
}

type service struct {
	repo  Repository
	email EmailProvider
	cfg   *Config
}

func NewService(repo Repository, email EmailProvider, cfg *Config) Service {
	return &service{
		repo:  repo,
		email: email,
		cfg:   cfg,
	}
}

// Register creates an account. The verification email is best-effort:
// a failed send leaves the account in place and can be retried.
func (s *service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     strings.ToLower(strings.TrimSpace(req.Username)),
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: string(hash),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if err := s.sendVerification(ctx, user); err != nil {
		log.Printf("verification email to %s failed: %v", user.Email, err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if err == ErrUserNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := utils.ValidateJWT(refreshToken, s.cfg.JWTSecret)
	if err != nil || claims.Type != "refresh" {
		return nil, ErrInvalidToken
	}

	session, err := s.repo.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	// Rotate: old session out, new pair in
	if err := s.repo.DeleteSession(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *service) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.DeleteSession(ctx, refreshToken)
}

func (s *service) VerifyEmail(ctx context.Context, token string) error {
	_, err := s.repo.ConsumeVerifyToken(ctx, hashToken(token))
	return err
}

func (s *service) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return nil
	}
	return s.sendVerification(ctx, user)
}

// RequestPasswordReset never reveals whether the email exists
func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if err == ErrUserNotFound {
			return nil
		}
		return err
	}

	token, err := randomToken()
	if err != nil {
		return err
	}

	if err := s.repo.SetResetToken(ctx, user.ID, hashToken(token), time.Now().Add(tokenLinkExpiry)); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.BaseURL, token)
	return s.email.SendPasswordResetEmail(ctx, user.Email, user.FullName, link)
}

func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.repo.ConsumeResetToken(ctx, hashToken(token))
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cfg.BCryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	// Force re-login everywhere after a password change
	return s.repo.DeleteUserSessions(ctx, userID)
}

func (s *service) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	return utils.ValidateJWT(token, s.cfg.JWTSecret)
}

func (s *service) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *service) CleanupExpiredSessions(ctx context.Context) error {
	return s.repo.DeleteExpiredSessions(ctx)
}

func (s *service) issueTokens(ctx context.Context, user *User) (*TokenPair, error) {
	access, err := utils.GenerateJWT(user.ID, user.Email, user.Username, "access", s.cfg.AccessTokenExpiry, s.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	refresh, err := utils.GenerateJWT(user.ID, user.Email, user.Username, "refresh", s.cfg.RefreshTokenExpiry, s.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	session := &Session{
		UserID:       user.ID,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(s.cfg.RefreshTokenExpiry),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) sendVerification(ctx context.Context, user *User) error {
	token, err := randomToken()
	if err != nil {
		return err
	}

	if err := s.repo.SetVerifyToken(ctx, user.ID, hashToken(token), time.Now().Add(tokenLinkExpiry)); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/verify-email?token=%s", s.cfg.BaseURL, token)
	return s.email.SendVerificationEmail(ctx, user.Email, user.FullName, link)
}

// randomToken returns a 40-char hex token; only its sha256 hash is stored
func randomToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
