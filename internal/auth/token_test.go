package auth

import (
	"errors"
	"testing"
	"time"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	manager, err := NewManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	manager.clock = fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	token, err := manager.Issue("member-1", "ada")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.MemberID != "member-1" {
		t.Fatalf("expected member-1, got %q", claims.MemberID)
	}
	if claims.Nickname != "ada" {
		t.Fatalf("expected nickname ada, got %q", claims.Nickname)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	manager, err := NewManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	manager.clock = fixedClock(issuedAt)

	token, err := manager.Issue("member-1", "")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	manager.clock = fixedClock(issuedAt.Add(2 * time.Hour))
	if _, err := manager.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer, err := NewManager("secret-a", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	verifier, err := NewManager("secret-b", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, err := issuer.Issue("member-1", "")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	manager, err := NewManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if _, err := manager.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestIssueRequiresMemberID(t *testing.T) {
	manager, err := NewManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if _, err := manager.Issue("", ""); !errors.Is(err, ErrMissingSubject) {
		t.Fatalf("expected ErrMissingSubject, got %v", err)
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
