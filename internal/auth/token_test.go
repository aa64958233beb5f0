package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerifyToken(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	userID := "user-123"

	tok, err := IssueToken(userID, secret, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	gotUserID, err := VerifyToken(tok, secret)
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if gotUserID != userID {
		t.Fatalf("userID mismatch: got %q want %q", gotUserID, userID)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := IssueToken("u1", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	_, err = VerifyToken(tok, secret)
	if err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := IssueToken("u2", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	_, err = VerifyToken(tok, []byte("wrong-secret"))
	if err == nil {
		t.Fatal("expected error for invalid signature, got nil")
	}
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := VerifyToken("not.a.jwt", []byte("k"))
	if err == nil {
		t.Fatal("expected error for malformed token, got nil")
	}
}
