package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewTokenManager("secret", time.Hour).WithClock(func() time.Time { return now })

	in := Principal{UserID: uuid.New(), ProfileID: uuid.New(), Email: "doc@example.com", Role: RoleDoctor}
	raw, exp, err := m.Issue(in)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !exp.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", exp)
	}

	out, err := m.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if *out != in {
		t.Fatalf("expected %+v, got %+v", in, *out)
	}
}

func TestTokenManager_RejectsExpiredAndForeign(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewTokenManager("secret", time.Hour).WithClock(func() time.Time { return now })

	raw, _, err := m.Issue(Principal{UserID: uuid.New(), ProfileID: uuid.New(), Role: RolePatient})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	later := NewTokenManager("secret", time.Hour).WithClock(func() time.Time { return now.Add(2 * time.Hour) })
	if _, err := later.Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	other := NewTokenManager("other", time.Hour).WithClock(func() time.Time { return now })
	if _, err := other.Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign secret, got %v", err)
	}

	if _, err := m.Parse("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestParseRole(t *testing.T) {
	for _, code := range []string{"patient", "doctor", "admin"} {
		if _, err := ParseRole(code); err != nil {
			t.Fatalf("%s: %v", code, err)
		}
	}
	if _, err := ParseRole("provider"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestPrincipal_IsAndContext(t *testing.T) {
	p := &Principal{Role: RoleAdmin}
	if !p.Is(RoleDoctor, RoleAdmin) || p.Is(RolePatient) {
		t.Fatalf("unexpected role checks for %s", p.Role)
	}

	if _, err := PrincipalFrom(context.Background()); !errors.Is(err, ErrNoPrincipal) {
		t.Fatalf("expected ErrNoPrincipal, got %v", err)
	}
	got, err := PrincipalFrom(WithPrincipal(context.Background(), p))
	if err != nil || got != p {
		t.Fatalf("expected principal from context, got %v %v", got, err)
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret!" {
		t.Fatalf("password stored in clear")
	}
	if !VerifyPassword(hash, "s3cret!") {
		t.Fatalf("expected password to verify")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatalf("wrong password must not verify")
	}
}
