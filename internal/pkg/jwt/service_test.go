package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestService(now time.Time) *HMACService {
	s := NewHMACService("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
	s.now = func() time.Time { return now }
	return s
}

func TestHMACService_AccessRoundTrip(t *testing.T) {
	now := time.Now()
	s := newTestService(now)
	sub := Subject{UserID: uuid.New(), Email: "hr@example.com", Role: "hr"}

	tok, err := s.GenerateAccessToken(sub)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	c, err := s.ValidateAccessToken(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if c.UserID != sub.UserID || c.Email != sub.Email || c.Role != "hr" || c.TokenType != TokenTypeAccess {
		t.Fatalf("unexpected claims: %+v", c)
	}
}

func TestHMACService_RefreshIsNotAccess(t *testing.T) {
	s := newTestService(time.Now())
	sub := Subject{UserID: uuid.New(), Role: "job_seeker"}

	tok, err := s.GenerateRefreshToken(sub)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := s.ValidateAccessToken(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected refresh token rejected as access, got %v", err)
	}

	c, err := s.ValidateToken(tok)
	if err != nil {
		t.Fatalf("validate any: %v", err)
	}
	if c.TokenType != TokenTypeRefresh {
		t.Fatalf("expected refresh token type, got %q", c.TokenType)
	}
}

func TestHMACService_Expired(t *testing.T) {
	issued := time.Now().Add(-time.Hour)
	s := newTestService(issued)
	tok, err := s.GenerateAccessToken(Subject{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	s.now = time.Now
	if _, err := s.ValidateAccessToken(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestHMACService_Garbage(t *testing.T) {
	s := newTestService(time.Now())
	if _, err := s.ValidateAccessToken("not-a-jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := s.GenerateAccessToken(Subject{}); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected nil user id rejected, got %v", err)
	}
}
