package auth

import (
	"errors"
	"testing"
	"time"

	"worldstage/models"
)

func testUser() models.User {
	return models.User{ID: 7, Username: "ada", Email: "ada@example.com"}
}

func TestGenerateAndParseToken(t *testing.T) {
	issuer := NewIssuer("secret", 7*24*time.Hour)
	token, err := issuer.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := issuer.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ID != 7 || claims.Username != "ada" || claims.Email != "ada@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	lifetime := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time)
	if lifetime != 7*24*time.Hour {
		t.Fatalf("expected 7 day lifetime, got %s", lifetime)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	issuer := NewIssuer("secret", -time.Minute)
	token, err := issuer.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := issuer.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	token, err := NewIssuer("other", time.Hour).GenerateToken(testUser())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewIssuer("secret", time.Hour).ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := NewIssuer("secret", time.Hour).ParseToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestMissingSecretFailsClosed(t *testing.T) {
	issuer := NewIssuer("", time.Hour)
	if _, err := issuer.GenerateToken(testUser()); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret on generate, got %v", err)
	}
	if _, err := issuer.ParseToken("anything"); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret on parse, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	if got := BearerToken("Bearer abc.def"); got != "abc.def" {
		t.Fatalf("got %q", got)
	}
	if got := BearerToken("bearer abc"); got != "abc" {
		t.Fatalf("scheme should be case-insensitive, got %q", got)
	}
	if got := BearerToken("abc"); got != "" {
		t.Fatalf("expected empty token without scheme, got %q", got)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "hunter22") {
		t.Fatalf("expected password to match")
	}
	if CheckPassword(hash, "hunter23") {
		t.Fatalf("expected mismatch")
	}
}
