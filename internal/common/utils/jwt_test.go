package utils

import (
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(42, "alice@example.com", "alice", "access", time.Hour, "secret")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ValidateJWT(token, "secret")
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" || claims.Type != "access" {
		t.Errorf("claims mismatch: %+v", claims)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
}

func TestJWTTokensAreUnique(t *testing.T) {
	first, err := GenerateJWT(1, "a@b.c", "a", "refresh", time.Hour, "secret")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	second, err := GenerateJWT(1, "a@b.c", "a", "refresh", time.Hour, "secret")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if first == second {
		t.Error("two tokens for the same user must not collide")
	}
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(1, "a@b.c", "a", "access", time.Hour, "secret")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ValidateJWT(token, "other-secret"); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWT(1, "a@b.c", "a", "access", -time.Minute, "secret")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ValidateJWT(token, "secret"); err != ErrExpiredToken {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestJWTGarbage(t *testing.T) {
	if _, err := ValidateJWT("not.a.token", "secret"); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
