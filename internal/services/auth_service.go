package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ococalli/internal/config"
	dbm "ococalli/internal/models/db_models"
	"ococalli/internal/models/request_models"
	resp "ococalli/internal/models/response_models"
	"ococalli/internal/repositories"
	mem "ococalli/pkg/memcache"
	"ococalli/pkg/utils"
)

// GateDecision is the outcome of checking a session against the admin
// allow-list. RedirectTo is set whenever access is refused.
type GateDecision struct {
	Allowed    bool
	RedirectTo string
	Reason     string
}

// AccessGate decides who reaches the admin area.
type AccessGate struct {
	allowed   map[string]struct{}
	loginPath string
}

func NewAccessGate(adminEmails []string, loginPath string) *AccessGate {
	g := &AccessGate{
		allowed:   make(map[string]struct{}, len(adminEmails)),
		loginPath: loginPath,
	}
	for _, e := range config.NormalizeEmails(adminEmails) {
		g.allowed[e] = struct{}{}
	}
	if g.loginPath == "" {
		g.loginPath = "/login"
	}
	return g
}

// Decide takes the signed-in email, empty when there is no session.
func (g *AccessGate) Decide(email string) GateDecision {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return GateDecision{RedirectTo: g.loginPath, Reason: "no session"}
	}
	if _, ok := g.allowed[email]; !ok {
		return GateDecision{RedirectTo: g.loginPath, Reason: "not an administrator"}
	}
	return GateDecision{Allowed: true}
}

func (g *AccessGate) IsAdmin(email string) bool {
	return g.Decide(email).Allowed
}

func (g *AccessGate) LoginPath() string { return g.loginPath }

type AuthService interface {
	AdminLogin(ctx context.Context, req request_models.LoginRequest) (*resp.LoginResponse, error)
	MemberLogin(ctx context.Context, req request_models.LoginRequest) (*resp.LoginResponse, error)
	// Authenticate validates a bearer token and rejects revoked sessions.
	Authenticate(token string) (*utils.Claims, error)
	Logout(claims *utils.Claims)
	Session(claims *utils.Claims) resp.SessionResponse
	SeedAdmin(ctx context.Context, req request_models.SeedAdminRequest) (*resp.AdminAccountResponse, bool, error)
}

type authService struct {
	accounts  repositories.AccountRepository
	customers repositories.CustomerRepository
	tokens    *utils.TokenManager
	revoked   mem.RevokedTokenStore
	gate      *AccessGate
	log       *zap.Logger
}

func NewAuthService(
	accounts repositories.AccountRepository,
	customers repositories.CustomerRepository,
	tokens *utils.TokenManager,
	revoked mem.RevokedTokenStore,
	gate *AccessGate,
	log *zap.Logger,
) AuthService {
	return &authService{
		accounts:  accounts,
		customers: customers,
		tokens:    tokens,
		revoked:   revoked,
		gate:      gate,
		log:       log.Named("auth"),
	}
}

func (a *authService) AdminLogin(ctx context.Context, req request_models.LoginRequest) (*resp.LoginResponse, error) {
	startTime := time.Now()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	account, err := a.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if account == nil {
		return nil, utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(account.PasswordHash, req.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	// Valid credentials are not enough, the account must be on the list.
	if !a.gate.IsAdmin(account.Email) {
		a.log.Warn("admin sign-in refused", zap.String("email", account.Email))
		return nil, utils.ErrForbidden
	}

	out, err := a.issue(account.ID, account.Email, utils.RoleAdmin)
	if err != nil {
		return nil, err
	}
	a.log.Info("admin signed in", zap.String("email", account.Email), zap.Duration("took", time.Since(startTime)))
	return out, nil
}

func (a *authService) MemberLogin(ctx context.Context, req request_models.LoginRequest) (*resp.LoginResponse, error) {
	customer, err := a.customers.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if customer == nil {
		return nil, utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(customer.PasswordHash, req.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}
	return a.issue(customer.ID, customer.Email, utils.RoleMember)
}

func (a *authService) issue(userID uuid.UUID, email, role string) (*resp.LoginResponse, error) {
	token, claims, err := a.tokens.CreateToken(userID, email, role)
	if err != nil {
		return nil, err
	}
	return &resp.LoginResponse{
		Token:     token,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (a *authService) Authenticate(token string) (*utils.Claims, error) {
	if token == "" {
		return nil, utils.ErrUnauthorized
	}
	claims, err := a.tokens.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUnauthorized, err)
	}
	if a.revoked.IsRevoked(claims.ID) {
		return nil, fmt.Errorf("%w: session ended", utils.ErrUnauthorized)
	}
	return claims, nil
}

func (a *authService) Logout(claims *utils.Claims) {
	if claims == nil {
		return
	}
	until := a.tokens.Now().Add(a.tokens.TTL())
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	a.revoked.Revoke(claims.ID, claims.Email, until)
	a.log.Info("signed out", zap.String("email", claims.Email), zap.String("role", claims.Role))
}

func (a *authService) Session(claims *utils.Claims) resp.SessionResponse {
	out := resp.SessionResponse{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out
}

// SeedAdmin creates the account or resets its name and password. The bool
// reports whether a new row was created.
func (a *authService) SeedAdmin(ctx context.Context, req request_models.SeedAdminRequest) (*resp.AdminAccountResponse, bool, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, false, err
	}
	if len(req.Password) < 8 {
		return nil, false, fmt.Errorf("%w: password must be at least 8 characters", utils.ErrValidation)
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = email
	}

	account, err := a.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	created := account == nil
	if created {
		account = &dbm.AdminAccount{Name: name, Email: email, PasswordHash: hash, Role: utils.RoleAdmin}
		err = a.accounts.Create(ctx, account)
	} else {
		account.Name, account.PasswordHash, account.Role = name, hash, utils.RoleAdmin
		err = a.accounts.UpdateCredentials(ctx, account)
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	if !a.gate.IsAdmin(email) {
		a.log.Warn("admin account is not on ADMIN_EMAILS and cannot sign in", zap.String("email", email))
	}
	return &resp.AdminAccountResponse{
		ID:    account.ID.String(),
		Name:  account.Name,
		Email: account.Email,
		Role:  account.Role,
	}, created, nil
}
