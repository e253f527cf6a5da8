package auth

import (
	"testing"
	"time"
)

func initTestSecret(t *testing.T) {
	t.Helper()
	if err := Init("test-secret", time.Minute, time.Hour); err != nil {
		t.Fatalf("init: %v", err)
	}
}

func TestTokenPairRoundTrip(t *testing.T) {
	initTestSecret(t)

	pair, err := GenerateTokenPair(42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	access, err := VerifyToken(pair.Access, AccessToken)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if access.UserID != 42 {
		t.Fatalf("access user = %d, want 42", access.UserID)
	}

	refresh, err := VerifyToken(pair.Refresh, RefreshToken)
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
	if refresh.ID == access.ID {
		t.Fatal("access and refresh tokens share a jti")
	}
	if refresh.ExpiresAt.Time.Before(access.ExpiresAt.Time) {
		t.Fatal("refresh token expires before access token")
	}
}

func TestVerifyTokenRejectsWrongType(t *testing.T) {
	initTestSecret(t)

	pair, err := GenerateTokenPair(7)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := VerifyToken(pair.Refresh, AccessToken); err == nil {
		t.Fatal("refresh token accepted as access token")
	}
	if _, err := VerifyToken(pair.Access, RefreshToken); err == nil {
		t.Fatal("access token accepted as refresh token")
	}
}

func TestVerifyTokenRejectsForeignSignature(t *testing.T) {
	initTestSecret(t)
	token, err := GenerateAccessToken(1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if err := Init("another-secret", 0, 0); err != nil {
		t.Fatalf("re-init: %v", err)
	}
	if _, err := VerifyToken(token, AccessToken); err == nil {
		t.Fatal("token signed with another secret accepted")
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	if err := Init("test-secret", time.Nanosecond, time.Hour); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() { accessTTL = 15 * time.Minute })

	token, err := GenerateAccessToken(1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	time.Sleep(1100 * time.Millisecond)
	if _, err := VerifyToken(token, AccessToken); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestInitRequiresSecret(t *testing.T) {
	if err := Init("", 0, 0); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "correct horse") {
		t.Fatal("password does not verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("wrong password verified")
	}
}
