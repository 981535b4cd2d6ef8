package auth

import (
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestIssueAndParseToken(t *testing.T) {
	p := Principal{
		UserID:  "65b0f1a2c3d4e5f6a7b8c9d0",
		Name:    "Dana",
		IsAdmin: true,
	}

	raw, err := IssueToken(testSecret, p, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	parsed, err := ParseToken(testSecret, raw)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if parsed != p {
		t.Errorf("parsed principal = %+v, want %+v", parsed, p)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	raw, err := IssueToken(testSecret, Principal{UserID: "u1"}, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	if _, err := ParseToken("other-secret", raw); err == nil {
		t.Errorf("expected error for wrong secret")
	}
}

func TestParseToken_Expired(t *testing.T) {
	raw, err := IssueToken(testSecret, Principal{UserID: "u1"}, -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	if _, err := ParseToken(testSecret, raw); err == nil {
		t.Errorf("expected error for expired token")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken(testSecret, "not-a-token"); err == nil {
		t.Errorf("expected error for malformed token")
	}
}
