package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/auth"
)

func newTestService() *Service {
	return NewService(NewMemoryRepo(), auth.NewManager("test-secret", time.Hour))
}

func TestRegisterIssuesToken(t *testing.T) {
	svc := newTestService()

	user, token, err := svc.Register(context.Background(), "Alice", "A@X.com", "pw123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if user.Email != "a@x.com" {
		t.Fatalf("expected lowercased email, got %s", user.Email)
	}
	if user.PasswordHash == "pw123" || user.PasswordHash == "" {
		t.Fatalf("expected hashed password, got %q", user.PasswordHash)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "Alice", "a@x.com", "pw123"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, _, err := svc.Register(ctx, "Alice Again", "a@x.com", "other")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "Alice", "a@x.com", "pw123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, _, err := svc.Login(ctx, "a@x.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmailIndistinguishable(t *testing.T) {
	svc := newTestService()

	_, _, err := svc.Login(context.Background(), "nobody@x.com", "pw123")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "Alice", "a@x.com", "pw123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, token, err := svc.Login(ctx, "a@x.com", "pw123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if user.ID != registered.ID {
		t.Fatalf("expected same user id")
	}
}
