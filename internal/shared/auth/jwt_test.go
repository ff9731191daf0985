package auth

import (
	"testing"
	"time"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Sign(Claims{UserID: "user-1", Email: "a@x.com", Name: "Alice"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected user-1, got %s", claims.UserID)
	}
	if claims.Email != "a@x.com" {
		t.Fatalf("expected a@x.com, got %s", claims.Email)
	}
}

func TestSignRequiresUserID(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	if _, err := m.Sign(Claims{}); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret", -time.Hour)

	token, err := m.Sign(Claims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := m.Verify(token); err == nil {
		t.Fatalf("expected expired token to fail verification")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	other := NewManager("other-secret", time.Hour)

	token, err := m.Sign(Claims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := other.Verify(token); err == nil {
		t.Fatalf("expected token signed with different secret to fail")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	if _, err := m.Verify("not.a.token"); err == nil {
		t.Fatalf("expected garbage token to fail")
	}
}
