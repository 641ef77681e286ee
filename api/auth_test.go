package api

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestBearerToken(t *testing.T) {
	token, err := bearerToken("Bearer header.payload.signature")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "header.payload.signature" {
		t.Fatalf("unexpected token content: %s", token)
	}
}

func TestBearerTokenMissing(t *testing.T) {
	if _, err := bearerToken(""); err == nil || err.Error() != "missing authorization header" {
		t.Fatalf("expected missing header error, got %v", err)
	}
}

func TestBearerTokenBadShape(t *testing.T) {
	tests := []string{
		"header.payload.signature",
		"Basic abc.def.ghi",
		"Bearer not-a-jwt",
		"Bearer " + strings.Repeat(".", 1000),
	}
	for _, header := range tests {
		if _, err := bearerToken(header); err == nil || err.Error() != "bad auth header" {
			t.Fatalf("header %q: expected bad auth header error, got %v", header, err)
		}
	}
}

func TestLocalModeIssueAndVerify(t *testing.T) {
	auth, err := NewAuth(AuthOptions{
		LocalSecret: []byte("test-secret"),
		Audience:    "api://aud",
		Issuer:      "https://issuer/",
	})
	if err != nil {
		t.Fatalf("new auth: %v", err)
	}
	if !auth.CanIssue() {
		t.Fatal("local mode should issue tokens")
	}

	signed, err := auth.Issue("user-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	userID, err := auth.UserIDFromAuthHeader("Bearer " + signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("unexpected user id: %s", userID)
	}
}

func TestLocalModeRejectsForeignSecret(t *testing.T) {
	auth, err := NewAuth(AuthOptions{LocalSecret: []byte("right-secret")})
	if err != nil {
		t.Fatalf("new auth: %v", err)
	}

	claims := jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(5 * time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := auth.UserIDFromAuthHeader("Bearer " + signed); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}

func TestLocalModeRejectsExpired(t *testing.T) {
	secret := []byte("test-secret")
	auth, err := NewAuth(AuthOptions{LocalSecret: secret})
	if err != nil {
		t.Fatalf("new auth: %v", err)
	}

	claims := jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := auth.UserIDFromAuthHeader("Bearer " + signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestLocalModeRejectsWrongAudience(t *testing.T) {
	secret := []byte("test-secret")
	auth, err := NewAuth(AuthOptions{LocalSecret: secret, Audience: "api://aud"})
	if err != nil {
		t.Fatalf("new auth: %v", err)
	}

	claims := jwt.MapClaims{
		"sub": "user-123",
		"aud": "api://other",
		"exp": time.Now().Add(5 * time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := auth.UserIDFromAuthHeader("Bearer " + signed); err == nil {
		t.Fatal("expected audience mismatch to be rejected")
	}
}

func TestLocalModeRejectsMissingSub(t *testing.T) {
	secret := []byte("test-secret")
	auth, err := NewAuth(AuthOptions{LocalSecret: secret})
	if err != nil {
		t.Fatalf("new auth: %v", err)
	}

	claims := jwt.MapClaims{
		"exp": time.Now().Add(5 * time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := auth.UserIDFromAuthHeader("Bearer " + signed); err == nil || err.Error() != "missing sub" {
		t.Fatalf("expected missing sub error, got %v", err)
	}
}

func TestNewAuthRequiresKeySource(t *testing.T) {
	if _, err := NewAuth(AuthOptions{}); err == nil {
		t.Fatal("expected configuration error")
	}
}
