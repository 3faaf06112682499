package auth

import (
	"context"
	"strings"
	"testing"
	"time"
)

type fakeRepo struct {
	users    map[int64]*User
	byEmail  map[string]*User
	sessions map[string]*Session
	verify   map[string]int64
	reset    map[string]int64
	nextID   int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:    make(map[int64]*User),
		byEmail:  make(map[string]*User),
		sessions: make(map[string]*Session),
		verify:   make(map[string]int64),
		reset:    make(map[string]int64),
	}
}

func (f *fakeRepo) CreateUser(ctx context.Context, user *User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return ErrEmailTaken
	}
	for _, u := range f.users {
		if u.Username == user.Username {
			return ErrUsernameTaken
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeRepo) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeRepo) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	u, ok := f.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeRepo) SetVerifyToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	f.verify[tokenHash] = userID
	return nil
}

func (f *fakeRepo) ConsumeVerifyToken(ctx context.Context, tokenHash string) (int64, error) {
	userID, ok := f.verify[tokenHash]
	if !ok {
		return 0, ErrInvalidToken
	}
	delete(f.verify, tokenHash)
	f.users[userID].IsVerified = true
	return userID, nil
}

func (f *fakeRepo) SetResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	f.reset[tokenHash] = userID
	return nil
}

func (f *fakeRepo) ConsumeResetToken(ctx context.Context, tokenHash string) (int64, error) {
	userID, ok := f.reset[tokenHash]
	if !ok {
		return 0, ErrInvalidToken
	}
	delete(f.reset, tokenHash)
	return userID, nil
}

func (f *fakeRepo) CreateSession(ctx context.Context, session *Session) error {
	f.sessions[session.RefreshToken] = session
	return nil
}

func (f *fakeRepo) GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	s, ok := f.sessions[refreshToken]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeRepo) DeleteSession(ctx context.Context, refreshToken string) error {
	delete(f.sessions, refreshToken)
	return nil
}

func (f *fakeRepo) DeleteUserSessions(ctx context.Context, userID int64) error {
	for token, s := range f.sessions {
		if s.UserID == userID {
			delete(f.sessions, token)
		}
	}
	return nil
}

func (f *fakeRepo) DeleteExpiredSessions(ctx context.Context) error {
	return nil
}

type fakeEmail struct {
	verifications []string
	resets        []string
	resetLinks    []string
}

func (f *fakeEmail) SendVerificationEmail(ctx context.Context, to, name, link string) error {
	f.verifications = append(f.verifications, to)
	return nil
}

func (f *fakeEmail) SendPasswordResetEmail(ctx context.Context, to, name, link string) error {
	f.resets = append(f.resets, to)
	f.resetLinks = append(f.resetLinks, link)
	return nil
}

func testConfig() *Config {
	return &Config{
		JWTSecret:          "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		BCryptCost:         4,
		BaseURL:            "http://localhost:3000",
	}
}

func register(t *testing.T, svc Service) *AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "Alice@Example.com",
		Username: "alice",
		FullName: "Alice Doe",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeRepo()
	email := &fakeEmail{}
	svc := NewService(repo, email, testConfig())

	resp := register(t, svc)
	if resp.User.Email != "alice@example.com" {
		t.Errorf("expected lowercased email, got %q", resp.User.Email)
	}
	if resp.Tokens == nil || resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatal("expected a token pair on registration")
	}
	if len(email.verifications) != 1 {
		t.Errorf("expected one verification email, got %d", len(email.verifications))
	}

	login, err := svc.Login(context.Background(), &LoginRequest{Email: "alice@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != resp.User.ID {
		t.Errorf("login returned wrong user: %d", login.User.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeEmail{}, testConfig())
	register(t, svc)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice2",
		FullName: "Alice Again",
		Password: "secret123",
	})
	if err != ErrEmailTaken {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeEmail{}, testConfig())
	register(t, svc)

	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "alice@example.com", Password: "wrong"}); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	// Unknown emails fail the same way
	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "ghost@example.com", Password: "secret123"}); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeEmail{}, testConfig())
	resp := register(t, svc)

	pair, err := svc.Refresh(context.Background(), resp.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected a fresh token pair")
	}

	// The old refresh token is dead after rotation
	if _, err := svc.Refresh(context.Background(), resp.Tokens.RefreshToken); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for rotated token, got %v", err)
	}
	// The new one works
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); err != nil {
		t.Errorf("new refresh token rejected: %v", err)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeEmail{}, testConfig())
	resp := register(t, svc)

	if _, err := svc.Refresh(context.Background(), resp.Tokens.AccessToken); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for access token, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	repo := newFakeRepo()
	email := &fakeEmail{}
	svc := NewService(repo, email, testConfig())
	resp := register(t, svc)

	if err := svc.RequestPasswordReset(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if len(email.resetLinks) != 1 {
		t.Fatalf("expected one reset email, got %d", len(email.resetLinks))
	}

	// Pull the raw token back out of the link
	link := email.resetLinks[0]
	token := link[strings.Index(link, "token=")+len("token="):]

	if err := svc.ResetPassword(context.Background(), token, "newsecret"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	// Old sessions are revoked and the old password no longer works
	if _, err := svc.Refresh(context.Background(), resp.Tokens.RefreshToken); err != ErrInvalidToken {
		t.Errorf("expected revoked session, got %v", err)
	}
	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "alice@example.com", Password: "secret123"}); err != ErrInvalidCredentials {
		t.Errorf("expected old password rejected, got %v", err)
	}
	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "alice@example.com", Password: "newsecret"}); err != nil {
		t.Errorf("new password rejected: %v", err)
	}

	// Reset tokens are single-use
	if err := svc.ResetPassword(context.Background(), token, "again"); err != ErrInvalidToken {
		t.Errorf("expected consumed token rejected, got %v", err)
	}
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	repo := newFakeRepo()
	email := &fakeEmail{}
	svc := NewService(repo, email, testConfig())

	if err := svc.RequestPasswordReset(context.Background(), "ghost@example.com"); err != nil {
		t.Errorf("expected silence for unknown email, got %v", err)
	}
	if len(email.resets) != 0 {
		t.Errorf("expected no email sent, got %d", len(email.resets))
	}
}
