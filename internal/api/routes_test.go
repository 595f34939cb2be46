package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ococalli/internal/api/controllers"
	"ococalli/internal/config"
	"ococalli/internal/infra"
	"ococalli/internal/models/request_models"
	resp "ococalli/internal/models/response_models"
	"ococalli/internal/repositories"
	"ococalli/internal/services"
	mem "ococalli/pkg/memcache"
	"ococalli/pkg/middleware"
	"ococalli/pkg/utils"
)

type envelope struct {
	Status     string          `json:"status"`
	Code       int             `json:"code"`
	Message    string          `json:"message"`
	RedirectTo string          `json:"redirect_to"`
	Data       json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	auth   services.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	db, err := infra.OpenMemoryDatabase(t.Name(), log)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { infra.CloseDatabase(db, log) })

	clock := utils.SystemClock{}
	codes, err := utils.NewCodeGenerator(1)
	if err != nil {
		t.Fatalf("codes: %v", err)
	}
	mailer, err := services.NewMailService(config.SMTPConfig{}, "http://localhost", log)
	if err != nil {
		t.Fatalf("mailer: %v", err)
	}
	tokens, err := utils.NewTokenManager("route-secret", time.Hour, clock)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}

	customerRepo := repositories.NewCustomerRepository(db)
	planRepo := repositories.NewPlanRepository(db)
	locationRepo := repositories.NewPickupLocationRepository(db)
	renewalRepo := repositories.NewRenewalRepository(db)
	gate := services.NewAccessGate([]string{"a@x.com"}, "/login")

	auth := services.NewAuthService(repositories.NewAccountRepository(db), customerRepo, tokens, mem.NewRevokedTokens(), gate, log)
	customers := services.NewCustomerService(customerRepo, planRepo, locationRepo, codes, mailer, clock, log)
	pickups := services.NewPickupService(locationRepo, customerRepo, clock, log)

	h := Handlers{
		Auth:         auth,
		Gate:         gate,
		LoginLimiter: middleware.NewIPRateLimiter(0),
		Health:       controllers.NewHealthController(db),
		Account:      controllers.NewAuthController(auth),
		Plans:        controllers.NewPlanController(services.NewPlanService(planRepo)),
		Members:      controllers.NewMemberController(customers),
		Customers:    controllers.NewCustomerController(customers, pickups),
		Renewals: controllers.NewRenewalController(
			services.NewRenewalService(db, customerRepo, planRepo, renewalRepo, mailer, clock, log)),
		Pickups: controllers.NewPickupController(pickups),
		Delivery: controllers.NewDeliveryController(
			services.NewDeliveryService(repositories.NewDeliveryRepository(db), customerRepo, locationRepo, clock, log)),
		Dashboard: controllers.NewDashboardController(
			services.NewDashboardService(repositories.NewDashboardRepository(db), clock)),
		Exports: controllers.NewExportController(
			services.NewExportService(customerRepo, renewalRepo, clock, log), clock),
	}

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	RegisterRoutes(r, h)
	return &testServer{t: t, router: r, auth: auth}
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			s.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return v
}

func (s *testServer) login(path, email, password string) string {
	s.t.Helper()
	w, env := s.do(http.MethodPost, path, "", request_models.LoginRequest{Email: email, Password: password})
	if w.Code != http.StatusOK {
		s.t.Fatalf("login %s: %d %s", email, w.Code, env.Message)
	}
	return decode[resp.LoginResponse](s.t, env.Data).Token
}

func (s *testServer) seedAdmin(email string) string {
	s.t.Helper()
	_, _, err := s.auth.SeedAdmin(context.Background(), request_models.SeedAdminRequest{Name: "Admin", Email: email, Password: "password1"})
	if err != nil {
		s.t.Fatalf("seed admin: %v", err)
	}
	return email
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	if w, _ := s.do(http.MethodGet, "/healthz", "", nil); w.Code != http.StatusOK {
		t.Fatalf("healthz: %d", w.Code)
	}
}

func TestAdminRoutesNeedAllowListedAdmin(t *testing.T) {
	s := newTestServer(t)
	s.seedAdmin("a@x.com")
	s.seedAdmin("b@x.com")

	w, env := s.do(http.MethodGet, "/admin/customers", "", nil)
	if w.Code != http.StatusUnauthorized || env.RedirectTo != "/login" {
		t.Fatalf("anonymous: %d %+v", w.Code, env)
	}

	w, _ = s.do(http.MethodPost, "/auth/admin/login", "", request_models.LoginRequest{Email: "b@x.com", Password: "password1"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("b@x.com login: %d", w.Code)
	}

	token := s.login("/auth/admin/login", "a@x.com", "password1")
	if w, _ := s.do(http.MethodGet, "/admin/customers", token, nil); w.Code != http.StatusOK {
		t.Fatalf("admin list: %d", w.Code)
	}

	if w, _ := s.do(http.MethodPost, "/auth/logout", token, nil); w.Code != http.StatusOK {
		t.Fatalf("logout: %d", w.Code)
	}
	if w, _ := s.do(http.MethodGet, "/admin/customers", token, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token still admitted: %d", w.Code)
	}
}

func TestMembershipFlow(t *testing.T) {
	s := newTestServer(t)
	s.seedAdmin("a@x.com")
	admin := s.login("/auth/admin/login", "a@x.com", "password1")

	w, env := s.do(http.MethodPost, "/plans", admin, request_models.PlanRequest{Name: "Trimestral", Price: 900, DurationMonths: 3, FreeMonths: 1})
	if w.Code != http.StatusCreated {
		t.Fatalf("create plan: %d %s", w.Code, env.Message)
	}
	plan := decode[resp.PlanResponse](t, env.Data)
	if plan.TotalMonths != 4 {
		t.Fatalf("total months = %d", plan.TotalMonths)
	}

	w, env = s.do(http.MethodPost, "/admin/pickup-locations", admin, request_models.PickupLocationRequest{Name: "Centro", Address: "Av. Juárez 1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create location: %d %s", w.Code, env.Message)
	}
	location := decode[resp.PickupLocationResponse](t, env.Data)

	w, env = s.do(http.MethodPost, "/members/register", "", request_models.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "secret1", MembershipPlanID: plan.ID.String(),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, env.Message)
	}
	reg := decode[resp.RegisterResponse](t, env.Data)
	if reg.Status != "PENDING" || !strings.HasPrefix(reg.MembershipCode, utils.MembershipCodePrefix) {
		t.Fatalf("registration: %+v", reg)
	}

	w, _ = s.do(http.MethodPost, "/members/register", "", request_models.RegisterRequest{
		Name: "Ana", Email: "ANA@example.com", Password: "secret1", MembershipPlanID: plan.ID.String(),
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate email: %d", w.Code)
	}

	member := s.login("/auth/member/login", "ana@example.com", "secret1")
	locID := location.ID.String()
	w, env = s.do(http.MethodPut, "/members/me/pickup-location", member, request_models.SetPickupLocationRequest{PickupLocationID: &locID})
	if w.Code != http.StatusOK {
		t.Fatalf("set location: %d %s", w.Code, env.Message)
	}
	if w, _ := s.do(http.MethodGet, "/admin/customers", member, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("member reached admin route: %d", w.Code)
	}

	w, env = s.do(http.MethodPost, "/admin/renewals", admin, map[string]any{
		"customer_id":        reg.CustomerID.String(),
		"membership_plan_id": plan.ID.String(),
		"amount":             "$900",
		"method_of_payment":  "Efectivo",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("renewal: %d %s", w.Code, env.Message)
	}
	renewal := decode[resp.RenewalResponse](t, env.Data)
	if renewal.Amount != 900 || renewal.CustomerStatus != "ACTIVE" {
		t.Fatalf("renewal: %+v", renewal)
	}

	w, env = s.do(http.MethodPost, "/admin/renewals", admin, map[string]any{"customer_id": reg.CustomerID.String()})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("renewal without plan: %d", w.Code)
	}

	_, env = s.do(http.MethodGet, "/members/me", member, nil)
	me := decode[resp.CustomerResponse](t, env.Data)
	if me.Status != "ACTIVE" || me.Membership.Bucket != "fresh" {
		t.Fatalf("me: %+v", me)
	}

	_, env = s.do(http.MethodGet, "/members/code/"+strings.ToLower(reg.MembershipCode), "", nil)
	public := decode[resp.PublicMembershipResponse](t, env.Data)
	if public.Name != "Ana" || public.PlanName != "Trimestral" {
		t.Fatalf("public lookup: %+v", public)
	}
	if strings.Contains(string(env.Data), "ana@example.com") {
		t.Fatalf("public lookup leaked the email: %s", env.Data)
	}

	_, env = s.do(http.MethodGet, "/admin/pickups/groups", admin, nil)
	report := decode[resp.PickupReport](t, env.Data)
	if report.Total != 1 || len(report.Groups) != 1 || report.Groups[0].Location == nil || report.Groups[0].Location.Name != "Centro" {
		t.Fatalf("groups: %+v", report)
	}

	w, env = s.do(http.MethodPost, "/admin/customers/"+reg.CustomerID.String()+"/deliver", admin, nil)
	if w.Code != http.StatusOK || env.Message != "Marked as delivered" {
		t.Fatalf("deliver: %d %s", w.Code, env.Message)
	}
	if _, env = s.do(http.MethodPost, "/admin/customers/"+reg.CustomerID.String()+"/deliver", admin, nil); env.Message != "Already delivered" {
		t.Fatalf("second deliver: %s", env.Message)
	}

	if w, _ := s.do(http.MethodDelete, "/plans/"+plan.ID.String(), admin, nil); w.Code != http.StatusConflict {
		t.Fatalf("delete plan in use: %d", w.Code)
	}
}

func TestExportDownloads(t *testing.T) {
	s := newTestServer(t)
	s.seedAdmin("a@x.com")
	admin := s.login("/auth/admin/login", "a@x.com", "password1")

	cases := map[string]string{
		"/admin/exports/customers.xlsx": "spreadsheetml",
		"/admin/exports/renewals.xlsx":  "spreadsheetml",
		"/admin/exports/pickups.xlsx":   "spreadsheetml",
		"/admin/exports/pickups.pdf":    "application/pdf",
	}
	for path, mime := range cases {
		w, _ := s.do(http.MethodGet, path, admin, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: %d", path, w.Code)
		}
		if !strings.Contains(w.Header().Get("Content-Type"), mime) {
			t.Fatalf("%s: content type %q", path, w.Header().Get("Content-Type"))
		}
		if !strings.HasPrefix(w.Header().Get("Content-Disposition"), "attachment;") {
			t.Fatalf("%s: disposition %q", path, w.Header().Get("Content-Disposition"))
		}
		if w.Body.Len() == 0 {
			t.Fatalf("%s: empty body", path)
		}
	}
}
