package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	clock := FixedClock(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	m, err := NewTokenManager("secret", time.Hour, clock)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	id := uuid.New()
	signed, issued, err := m.CreateToken(id, "a@x.com", RoleAdmin)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	claims, err := m.ValidateToken(signed)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != id.String() || claims.Email != "a@x.com" || claims.Role != RoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.ID == "" || claims.ID != issued.ID {
		t.Fatalf("jti mismatch: %q vs %q", claims.ID, issued.ID)
	}
}

func TestTokenExpires(t *testing.T) {
	issuedAt := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	m, _ := NewTokenManager("secret", time.Minute, FixedClock(issuedAt))
	signed, _, err := m.CreateToken(uuid.New(), "m@x.com", RoleMember)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	later, _ := NewTokenManager("secret", time.Minute, FixedClock(issuedAt.Add(2*time.Minute)))
	if _, err := later.ValidateToken(signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestTokenRejectsOtherSecret(t *testing.T) {
	a, _ := NewTokenManager("one", time.Hour, nil)
	b, _ := NewTokenManager("two", time.Hour, nil)
	signed, _, _ := a.CreateToken(uuid.New(), "a@x.com", RoleAdmin)
	if _, err := b.ValidateToken(signed); err == nil {
		t.Fatal("expected signature mismatch")
	}
	parts := strings.Split(signed, ".")
	parts[1] += "e30"
	if _, err := a.ValidateToken(strings.Join(parts, ".")); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}
}

func TestNewTokenManagerNeedsSecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour, nil); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestMembershipCodesAreUnique(t *testing.T) {
	gen, err := NewCodeGenerator(1)
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		code := gen.NewMembershipCode()
		if !strings.HasPrefix(code, MembershipCodePrefix) {
			t.Fatalf("code %q lacks prefix", code)
		}
		if _, dup := seen[code]; dup {
			t.Fatalf("duplicate code %q", code)
		}
		seen[code] = struct{}{}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret!" {
		t.Fatal("hash equals plaintext")
	}
	if err := ComparePasswords(hash, "s3cret!"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := ComparePasswords(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch")
	}
}
