package ident

import (
	"testing"
	"time"

	"github.com/goalraiders/goalraiders/internal/apperr"
)

var testSecret = []byte("test-secret")

func TestMintVerify_RoundTrip(t *testing.T) {
	token, err := Mint(testSecret, "user-1", time.Hour)
	if err != nil {
		t.Fatalf("Mint() error: %v", err)
	}
	uid, err := Verify(testSecret, token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if uid != "user-1" {
		t.Errorf("uid = %q, want user-1", uid)
	}
}

func TestMint_EmptyUID(t *testing.T) {
	if _, err := Mint(testSecret, "", time.Hour); err == nil {
		t.Fatal("expected error for empty uid")
	}
}

func TestVerify_EmptyToken(t *testing.T) {
	_, err := Verify(testSecret, "")
	if err == nil {
		t.Fatal("expected error for empty token")
	}
	if !apperr.Is(err, apperr.Unauthenticated) {
		t.Errorf("kind = %q, want unauthenticated", apperr.KindOf(err))
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := Mint(testSecret, "user-1", time.Hour)
	if err != nil {
		t.Fatalf("Mint() error: %v", err)
	}
	_, err = Verify([]byte("other-secret"), token)
	if err == nil {
		t.Fatal("expected error for wrong secret")
	}
	if !apperr.Is(err, apperr.Unauthenticated) {
		t.Errorf("kind = %q, want unauthenticated", apperr.KindOf(err))
	}
}

func TestVerify_Expired(t *testing.T) {
	token, err := Mint(testSecret, "user-1", -time.Minute)
	if err != nil {
		t.Fatalf("Mint() error: %v", err)
	}
	if _, err := Verify(testSecret, token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestVerify_Garbage(t *testing.T) {
	if _, err := Verify(testSecret, "not.a.jwt"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
