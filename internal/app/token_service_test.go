package app

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"accounts/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       uuid.New(),
		Username: "testuser",
		Role:     domain.RoleViewer,
	}
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)
	user := testUser()

	token, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Username != "testuser" {
		t.Errorf("username = %q, want %q", claims.Username, "testuser")
	}
	if claims.Role != domain.RoleViewer {
		t.Errorf("role = %q, want %q", claims.Role, domain.RoleViewer)
	}
	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("user id: %v", err)
	}
	if id != user.ID {
		t.Errorf("user id = %s, want %s", id, user.ID)
	}
}

func TestTokenService_Expiry(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Still valid just before expiry.
	svc.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	if _, err := svc.Validate(token); err != nil {
		t.Fatalf("validate before expiry: %v", err)
	}

	// Expired once the TTL elapses.
	svc.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	if _, err := svc.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("validate after expiry = %v, want ErrTokenExpired", err)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer := NewTokenService([]byte("secret-a"), time.Hour)
	verifier := NewTokenService([]byte("secret-b"), time.Hour)

	token, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.Validate(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("validate with wrong secret = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenService_Malformed(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)

	for _, bad := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := svc.Validate(bad); !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("Validate(%q) = %v, want ErrTokenMalformed", bad, err)
		}
	}
}

func TestNewTokenService_DefaultTTL(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), 0)
	if svc.TTL() != DefaultTokenTTL {
		t.Errorf("ttl = %v, want %v", svc.TTL(), DefaultTokenTTL)
	}
}
