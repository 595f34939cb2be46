package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ococalli/internal/models/request_models"
	"ococalli/internal/repositories"
	mem "ococalli/pkg/memcache"
	"ococalli/pkg/utils"
)

func TestAccessGateDecide(t *testing.T) {
	gate := NewAccessGate([]string{" A@X.com ", ""}, "/login")

	cases := []struct {
		email   string
		allowed bool
	}{
		{"a@x.com", true},
		{"  A@x.COM", true},
		{"b@x.com", false},
		{"", false},
	}
	for _, tc := range cases {
		d := gate.Decide(tc.email)
		if d.Allowed != tc.allowed {
			t.Fatalf("Decide(%q) allowed = %v, want %v", tc.email, d.Allowed, tc.allowed)
		}
		if !d.Allowed && d.RedirectTo != "/login" {
			t.Fatalf("Decide(%q) redirect = %q", tc.email, d.RedirectTo)
		}
	}

	if NewAccessGate(nil, "").Decide("a@x.com").Allowed {
		t.Fatalf("an empty allow-list must refuse everyone")
	}
}

func newAuthFixture(t *testing.T, admins ...string) (*fixture, AuthService, mem.RevokedTokenStore) {
	t.Helper()
	f := newFixture(t)
	tokens, err := utils.NewTokenManager("test-secret", time.Hour, nil)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	revoked := mem.NewRevokedTokens()
	svc := NewAuthService(
		repositories.NewAccountRepository(f.db),
		f.customerRepo,
		tokens,
		revoked,
		NewAccessGate(admins, "/login"),
		zap.NewNop(),
	)
	return f, svc, revoked
}

func TestAdminLoginRequiresAllowList(t *testing.T) {
	_, svc, _ := newAuthFixture(t, "a@x.com")
	ctx := context.Background()

	for _, email := range []string{"a@x.com", "b@x.com"} {
		if _, _, err := svc.SeedAdmin(ctx, request_models.SeedAdminRequest{Name: "Admin", Email: email, Password: "password1"}); err != nil {
			t.Fatalf("seed %s: %v", email, err)
		}
	}

	out, err := svc.AdminLogin(ctx, request_models.LoginRequest{Email: "A@x.com", Password: "password1"})
	if err != nil {
		t.Fatalf("allowed admin: %v", err)
	}
	claims, err := svc.Authenticate(out.Token)
	if err != nil || claims.Role != utils.RoleAdmin || claims.Email != "a@x.com" {
		t.Fatalf("claims: %v %+v", err, claims)
	}

	if _, err := svc.AdminLogin(ctx, request_models.LoginRequest{Email: "b@x.com", Password: "password1"}); !errors.Is(err, utils.ErrForbidden) {
		t.Fatalf("b@x.com: got %v, want ErrForbidden", err)
	}
	if _, err := svc.AdminLogin(ctx, request_models.LoginRequest{Email: "a@x.com", Password: "wrong"}); !errors.Is(err, utils.ErrInvalidCredentials) {
		t.Fatalf("bad password: got %v", err)
	}
	if _, err := svc.AdminLogin(ctx, request_models.LoginRequest{Email: "nobody@x.com", Password: "password1"}); !errors.Is(err, utils.ErrInvalidCredentials) {
		t.Fatalf("unknown account: got %v", err)
	}
}

func TestSeedAdminUpdatesExisting(t *testing.T) {
	_, svc, _ := newAuthFixture(t, "a@x.com")
	ctx := context.Background()

	first, created, err := svc.SeedAdmin(ctx, request_models.SeedAdminRequest{Name: "Admin", Email: "a@x.com", Password: "password1"})
	if err != nil || !created {
		t.Fatalf("first seed: created=%v err=%v", created, err)
	}
	second, created, err := svc.SeedAdmin(ctx, request_models.SeedAdminRequest{Name: "Jefa", Email: "A@X.com", Password: "password2"})
	if err != nil || created || second.ID != first.ID || second.Name != "Jefa" {
		t.Fatalf("second seed: created=%v err=%v %+v", created, err, second)
	}
	if _, err := svc.AdminLogin(ctx, request_models.LoginRequest{Email: "a@x.com", Password: "password2"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestMemberLoginAndLogout(t *testing.T) {
	f, svc, revoked := newAuthFixture(t)
	ctx := context.Background()
	plan := f.plan(t, "Mensual", 1, 0)

	reg, err := f.customers.Register(ctx, request_models.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "secret1", MembershipPlanID: plan.ID.String(),
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	out, err := svc.MemberLogin(ctx, request_models.LoginRequest{Email: "ANA@example.com", Password: "secret1"})
	if err != nil || out.Role != utils.RoleMember {
		t.Fatalf("member login: %v %+v", err, out)
	}
	claims, err := svc.Authenticate(out.Token)
	if err != nil || claims.Subject != reg.CustomerID.String() {
		t.Fatalf("claims: %v %+v", err, claims)
	}
	if s := svc.Session(claims); s.Email != "ana@example.com" || s.ExpiresAt.IsZero() {
		t.Fatalf("session: %+v", s)
	}

	svc.Logout(claims)
	if !revoked.IsRevoked(claims.ID) {
		t.Fatalf("token not revoked")
	}
	if _, err := svc.Authenticate(out.Token); !errors.Is(err, utils.ErrUnauthorized) {
		t.Fatalf("revoked token accepted: %v", err)
	}

	if _, err := svc.MemberLogin(ctx, request_models.LoginRequest{Email: "ana@example.com", Password: "nope"}); !errors.Is(err, utils.ErrInvalidCredentials) {
		t.Fatalf("bad password: %v", err)
	}
}

type revokeRecorder struct {
	mem.RevokedTokenStore
	until map[string]time.Time
}

func (r *revokeRecorder) Revoke(tokenID, email string, until time.Time) {
	r.until[tokenID] = until
}

func TestLogoutUsesTokenClock(t *testing.T) {
	f := newFixture(t)
	issued := time.Date(2020, 3, 1, 12, 0, 0, 0, time.UTC)
	tokens, err := utils.NewTokenManager("test-secret", time.Hour, utils.FixedClock(issued))
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	rec := &revokeRecorder{RevokedTokenStore: mem.NewRevokedTokens(), until: map[string]time.Time{}}
	svc := NewAuthService(repositories.NewAccountRepository(f.db), f.customerRepo, tokens, rec, NewAccessGate(nil, "/login"), zap.NewNop())

	claims := &utils.Claims{Email: "ana@example.com", Role: utils.RoleMember}
	claims.ID = "no-expiry"
	svc.Logout(claims)
	if got, want := rec.until["no-expiry"], issued.Add(time.Hour); !got.Equal(want) {
		t.Fatalf("revoked until %v, want %v", got, want)
	}

	_, issuedClaims, err := tokens.CreateToken(uuid.New(), "ana@example.com", utils.RoleMember)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	svc.Logout(issuedClaims)
	if got := rec.until[issuedClaims.ID]; !got.Equal(issuedClaims.ExpiresAt.Time) {
		t.Fatalf("revoked until %v, want token expiry %v", got, issuedClaims.ExpiresAt.Time)
	}
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	_, svc, _ := newAuthFixture(t)
	for _, tok := range []string{"", "abc", "a.b.c"} {
		if _, err := svc.Authenticate(tok); !errors.Is(err, utils.ErrUnauthorized) {
			t.Fatalf("Authenticate(%q) = %v", tok, err)
		}
	}
}
