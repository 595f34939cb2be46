package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ococalli/internal/infra"
	dbm "ococalli/internal/models/db_models"
	"ococalli/internal/repositories"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

type seqCodes struct {
	mu sync.Mutex
	n  int
}

func (s *seqCodes) NewMembershipCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("OC-T%04d", s.n)
}

type sentMail struct {
	kind string
	to   string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (m *recordingMailer) record(kind, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{kind: kind, to: to})
	return m.fail
}

func (m *recordingMailer) SendWelcome(_ context.Context, to, _, _, _ string) error {
	return m.record("welcome", to)
}

func (m *recordingMailer) SendRenewalReceipt(_ context.Context, to, _ string, _ RenewalReceipt) error {
	return m.record("receipt", to)
}

func (m *recordingMailer) SendExpiryReminder(_ context.Context, to, _ string, _ time.Time, _ int) error {
	return m.record("reminder", to)
}

func (m *recordingMailer) count(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.sent {
		if s.kind == kind {
			n++
		}
	}
	return n
}

type fixture struct {
	db     *gorm.DB
	clock  *testClock
	mailer *recordingMailer

	customerRepo repositories.CustomerRepository
	planRepo     repositories.IPlanRepository
	locationRepo repositories.PickupLocationRepository
	renewalRepo  repositories.RenewalRepository

	customers  CustomerService
	plans      PlanServiceInterface
	renewals   RenewalService
	pickups    PickupService
	deliveries DeliveryService
	dashboard  DashboardService
	exports    ExportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zap.NewNop()

	db, err := infra.OpenMemoryDatabase(t.Name(), log)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { infra.CloseDatabase(db, log) })

	f := &fixture{
		db:           db,
		clock:        &testClock{now: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		mailer:       &recordingMailer{},
		customerRepo: repositories.NewCustomerRepository(db),
		planRepo:     repositories.NewPlanRepository(db),
		locationRepo: repositories.NewPickupLocationRepository(db),
		renewalRepo:  repositories.NewRenewalRepository(db),
	}
	f.customers = NewCustomerService(f.customerRepo, f.planRepo, f.locationRepo, &seqCodes{}, f.mailer, f.clock, log)
	f.plans = NewPlanService(f.planRepo)
	f.renewals = NewRenewalService(db, f.customerRepo, f.planRepo, f.renewalRepo, f.mailer, f.clock, log)
	f.pickups = NewPickupService(f.locationRepo, f.customerRepo, f.clock, log)
	f.deliveries = NewDeliveryService(repositories.NewDeliveryRepository(db), f.customerRepo, f.locationRepo, f.clock, log)
	f.dashboard = NewDashboardService(repositories.NewDashboardRepository(db), f.clock)
	f.exports = NewExportService(f.customerRepo, f.renewalRepo, f.clock, log)
	return f
}

func (f *fixture) plan(t *testing.T, name string, months, free int) *dbm.MembershipPlan {
	t.Helper()
	p := &dbm.MembershipPlan{Name: name, Price: 250, DurationMonths: months, FreeMonths: free}
	if err := f.planRepo.Create(context.Background(), p); err != nil {
		t.Fatalf("create plan: %v", err)
	}
	return p
}

func (f *fixture) location(t *testing.T, name string) *dbm.PickupLocation {
	t.Helper()
	l := &dbm.PickupLocation{Name: name, Address: name + " 100", DeliveryDays: dbm.DeliveryDays{"sábado"}}
	if err := f.locationRepo.Create(context.Background(), l); err != nil {
		t.Fatalf("create location: %v", err)
	}
	return l
}

// customer inserts a row directly, bypassing registration.
func (f *fixture) customer(t *testing.T, name string, plan *dbm.MembershipPlan, mutate func(*dbm.Customer)) *dbm.Customer {
	t.Helper()
	c := &dbm.Customer{
		Name:             name,
		Email:            fmt.Sprintf("%s@example.com", name),
		PasswordHash:     "x",
		MembershipCode:   "OC-" + strings.ToUpper(name),
		Status:           dbm.StatusPending,
		MembershipPlanID: plan.ID,
	}
	if mutate != nil {
		mutate(c)
	}
	if err := f.customerRepo.Create(context.Background(), c); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return c
}
