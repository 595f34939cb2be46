package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	dbm "ococalli/internal/models/db_models"
	"ococalli/internal/models/request_models"
	resp "ococalli/internal/models/response_models"
	"ococalli/pkg/utils"
)

func strp(s string) *string { return &s }

func TestRegisterCreatesPendingCustomerWithCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.plan(t, "Mensual", 1, 0)

	out, err := f.customers.Register(ctx, request_models.RegisterRequest{
		Name:             "  Ana  ",
		Email:            "Ana@Example.com",
		Password:         "secret1",
		MembershipPlanID: plan.ID.String(),
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if out.Status != string(dbm.StatusPending) || !strings.HasPrefix(out.MembershipCode, utils.MembershipCodePrefix) {
		t.Fatalf("unexpected registration %+v", out)
	}

	stored, err := f.customerRepo.FindById(ctx, out.CustomerID)
	if err != nil || stored == nil {
		t.Fatalf("find: %v", err)
	}
	if stored.Name != "Ana" || stored.Email != "ana@example.com" {
		t.Fatalf("fields not normalized: %q %q", stored.Name, stored.Email)
	}
	if stored.PasswordHash == "secret1" || utils.ComparePasswords(stored.PasswordHash, "secret1") != nil {
		t.Fatalf("password not hashed")
	}
	if f.mailer.count("welcome") != 1 {
		t.Fatalf("welcome mail not sent")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.plan(t, "Mensual", 1, 0)
	req := request_models.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1", MembershipPlanID: plan.ID.String()}

	if _, err := f.customers.Register(ctx, req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	req.Email = "ANA@example.com"
	if _, err := f.customers.Register(ctx, req); !errors.Is(err, utils.ErrEmailAlreadyExists) {
		t.Fatalf("got %v, want ErrEmailAlreadyExists", err)
	}
}

func TestRegisterValidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.plan(t, "Mensual", 1, 0)

	cases := []request_models.RegisterRequest{
		{Name: "", Email: "a@x.com", Password: "secret1", MembershipPlanID: plan.ID.String()},
		{Name: "A", Email: "not-an-email", Password: "secret1", MembershipPlanID: plan.ID.String()},
		{Name: "A", Email: "a@x.com", Password: "123", MembershipPlanID: plan.ID.String()},
		{Name: "A", Email: "a@x.com", Password: "secret1", MembershipPlanID: "nope"},
	}
	for i, req := range cases {
		if _, err := f.customers.Register(ctx, req); !errors.Is(err, utils.ErrValidation) {
			t.Fatalf("case %d: got %v, want validation error", i, err)
		}
	}
}

func TestMailFailureDoesNotFailRegistration(t *testing.T) {
	f := newFixture(t)
	f.mailer.fail = errors.New("smtp down")
	plan := f.plan(t, "Mensual", 1, 0)

	_, err := f.customers.Register(context.Background(), request_models.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "secret1", MembershipPlanID: plan.ID.String(),
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
}

func TestUpdateKeepsMembershipCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.plan(t, "Mensual", 1, 0)
	other := f.plan(t, "Trimestral", 3, 0)
	c := f.customer(t, "ana", plan, nil)

	out, err := f.customers.UpdateCustomer(ctx, c.ID.String(), request_models.UpdateCustomerRequest{
		Name:             strp("Ana María"),
		MembershipPlanID: strp(other.ID.String()),
		StartDate:        strp("2024-01-01"),
		EndDate:          strp("2024-04-01"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out.MembershipCode != c.MembershipCode || out.Name != "Ana María" || out.Plan.Name != "Trimestral" {
		t.Fatalf("unexpected update result %+v", out)
	}

	// A write that tries to overwrite the code directly is ignored.
	if err := f.customerRepo.Update(ctx, c.ID, map[string]interface{}{"membership_code": "OC-HACKED", "name": "Ana"}); err != nil {
		t.Fatalf("raw update: %v", err)
	}
	stored, _ := f.customerRepo.FindById(ctx, c.ID)
	if stored.MembershipCode != c.MembershipCode {
		t.Fatalf("membership code changed to %s", stored.MembershipCode)
	}
}

func TestUpdateRejectsInvertedDates(t *testing.T) {
	f := newFixture(t)
	plan := f.plan(t, "Mensual", 1, 0)
	c := f.customer(t, "ana", plan, nil)

	_, err := f.customers.UpdateCustomer(context.Background(), c.ID.String(), request_models.UpdateCustomerRequest{
		StartDate: strp("2024-03-01"),
		EndDate:   strp("2024-02-01"),
	})
	if !errors.Is(err, utils.ErrInvalidDateRange) {
		t.Fatalf("got %v, want ErrInvalidDateRange", err)
	}
}

func TestListFiltersByNameAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.plan(t, "Mensual", 1, 0)
	f.customer(t, "beto", plan, func(c *dbm.Customer) { c.Status = dbm.StatusActive })
	f.customer(t, "ana", plan, func(c *dbm.Customer) { c.Status = dbm.StatusActive })
	f.customer(t, "carla", plan, nil)
	f.customer(t, "100%_real", plan, nil)

	all, err := f.customers.ListCustomers(ctx, request_models.CustomerFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 || all[0].Name != "100%_real" || all[1].Name != "ana" {
		t.Fatalf("unexpected order: %+v", all)
	}

	active, _ := f.customers.ListCustomers(ctx, request_models.CustomerFilter{Status: "active"})
	if len(active) != 2 {
		t.Fatalf("active = %d, want 2", len(active))
	}

	byName, _ := f.customers.ListCustomers(ctx, request_models.CustomerFilter{Query: "ARL"})
	if len(byName) != 1 || byName[0].Name != "carla" {
		t.Fatalf("query match: %+v", byName)
	}

	byEmail, _ := f.customers.ListCustomers(ctx, request_models.CustomerFilter{Query: "BETO@example"})
	if len(byEmail) != 1 || byEmail[0].Name != "beto" {
		t.Fatalf("email match: %+v", byEmail)
	}

	byCode, _ := f.customers.ListCustomers(ctx, request_models.CustomerFilter{Query: "oc-ana"})
	if len(byCode) != 1 || byCode[0].Name != "ana" {
		t.Fatalf("code match: %+v", byCode)
	}

	activeDomain, _ := f.customers.ListCustomers(ctx, request_models.CustomerFilter{Query: "example.com", Status: "ACTIVE"})
	if len(activeDomain) != 2 {
		t.Fatalf("query and status together = %d rows, want 2", len(activeDomain))
	}

	literal, _ := f.customers.ListCustomers(ctx, request_models.CustomerFilter{Query: "%_"})
	if len(literal) != 1 {
		t.Fatalf("wildcards must match literally, got %d rows", len(literal))
	}

	if _, err := f.customers.ListCustomers(ctx, request_models.CustomerFilter{Status: "GONE"}); !errors.Is(err, utils.ErrValidation) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestListEndingWithin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.plan(t, "Mensual", 1, 0)
	day := func(n int) *time.Time {
		d := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
		return &d
	}
	f.customer(t, "soon", plan, func(c *dbm.Customer) { c.EndDate = day(10) })
	f.customer(t, "later", plan, func(c *dbm.Customer) { c.EndDate = day(60) })
	f.customer(t, "lapsed", plan, func(c *dbm.Customer) { c.EndDate = day(-5) })
	f.customer(t, "derived", plan, func(c *dbm.Customer) { c.StartDate = day(-21) })
	f.customer(t, "undated", plan, nil)

	got, err := f.customers.ListEndingWithin(ctx, 30)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	names := map[string]resp.MembershipView{}
	for _, c := range got {
		names[c.Name] = c.Membership
	}
	if len(got) != 3 {
		t.Fatalf("got %d rows: %+v", len(got), names)
	}
	if v, ok := names["lapsed"]; !ok || v.Bucket != string(BucketExpired) {
		t.Fatalf("lapsed = %+v", v)
	}
	if v, ok := names["derived"]; !ok || !v.EndDateDerived || v.DaysRemaining == nil || *v.DaysRemaining != 10 {
		t.Fatalf("derived = %+v", v)
	}
	if _, ok := names["soon"]; !ok {
		t.Fatalf("soon missing: %+v", names)
	}
}

func TestLookupByCodeHidesContactDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.plan(t, "Mensual", 1, 0)
	c := f.customer(t, "ana", plan, func(c *dbm.Customer) {
		c.Phone = strp("555-0101")
		c.EndDate = ptr(day(2024, 1, 20))
	})

	out, err := f.customers.LookupByCode(ctx, strings.ToLower(c.MembershipCode))
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if out.Name != "ana" || out.PlanName != "Mensual" || out.Membership.Label != "10 days" {
		t.Fatalf("unexpected public view %+v", out)
	}

	if _, err := f.customers.LookupByCode(ctx, "OC-NOPE"); !errors.Is(err, utils.RecordNotFound) {
		t.Fatalf("got %v, want RecordNotFound", err)
	}
}

func TestCancelAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.plan(t, "Mensual", 1, 0)
	c := f.customer(t, "ana", plan, func(c *dbm.Customer) { c.Status = dbm.StatusActive })

	out, err := f.customers.CancelCustomer(ctx, c.ID.String())
	if err != nil || out.Status != string(dbm.StatusCancelled) {
		t.Fatalf("cancel: %v %+v", err, out)
	}

	if err := f.customers.DeleteCustomer(ctx, c.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.customers.GetCustomer(ctx, c.ID.String()); !errors.Is(err, utils.RecordNotFound) {
		t.Fatalf("got %v after delete, want RecordNotFound", err)
	}
	if err := f.customers.DeleteCustomer(ctx, c.ID.String()); !errors.Is(err, utils.RecordNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestSetPickupLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.plan(t, "Mensual", 1, 0)
	loc := f.location(t, "Centro")
	c := f.customer(t, "ana", plan, nil)

	out, err := f.customers.SetPickupLocation(ctx, c.ID.String(), request_models.SetPickupLocationRequest{PickupLocationID: strp(loc.ID.String())})
	if err != nil || out.PickupLocation == nil || out.PickupLocation.ID != loc.ID {
		t.Fatalf("set: %v %+v", err, out)
	}

	out, err = f.customers.SetPickupLocation(ctx, c.ID.String(), request_models.SetPickupLocationRequest{})
	if err != nil || out.PickupLocation != nil {
		t.Fatalf("clear: %v %+v", err, out)
	}
}
