package services

import (
	"context"
	"errors"
	"testing"

	dbm "ococalli/internal/models/db_models"
	"ococalli/internal/models/request_models"
	"ococalli/pkg/utils"
)

func TestPlanCrud(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.plans.CreatePlan(ctx, request_models.PlanRequest{Name: "Trimestral", Price: 700, DurationMonths: 3, FreeMonths: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.TotalMonths != 4 {
		t.Fatalf("total months = %d", created.TotalMonths)
	}
	if _, err := f.plans.CreatePlan(ctx, request_models.PlanRequest{Name: "Anual", DurationMonths: 0}); err != nil {
		t.Fatalf("create default duration: %v", err)
	}

	plans, err := f.plans.GetPlans(ctx)
	if err != nil || len(plans) != 2 || plans[0].Name != "Anual" || plans[0].DurationMonths != 1 {
		t.Fatalf("list: %v %+v", err, plans)
	}

	updated, err := f.plans.UpdatePlan(ctx, created.ID.String(), request_models.PlanRequest{Name: "Trimestral", Price: 750, DurationMonths: 3})
	if err != nil || updated.Price != 750 || updated.FreeMonths != 0 {
		t.Fatalf("update: %v %+v", err, updated)
	}

	if _, err := f.plans.CreatePlan(ctx, request_models.PlanRequest{Name: " "}); !errors.Is(err, utils.ErrValidation) {
		t.Fatalf("blank name: %v", err)
	}
	if _, err := f.plans.CreatePlan(ctx, request_models.PlanRequest{Name: "x", FreeMonths: -1}); !errors.Is(err, utils.ErrValidation) {
		t.Fatalf("negative free months: %v", err)
	}
}

func TestDeletePlanInUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := f.plan(t, "Mensual", 1, 0)
	c := f.customer(t, "ana", plan, func(c *dbm.Customer) { c.Status = dbm.StatusActive })

	if err := f.plans.DeletePlan(ctx, plan.ID.String()); !errors.Is(err, utils.ErrPlanInUse) {
		t.Fatalf("got %v, want ErrPlanInUse", err)
	}

	if _, err := f.customers.CancelCustomer(ctx, c.ID.String()); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := f.plans.DeletePlan(ctx, plan.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.plans.GetPlanInfoById(ctx, plan.ID.String()); !errors.Is(err, utils.RecordNotFound) {
		t.Fatalf("got %v after delete", err)
	}

	// the cancelled customer still shows the deleted plan
	out, err := f.customers.GetCustomer(ctx, c.ID.String())
	if err != nil || out.Plan == nil || out.Plan.Name != "Mensual" {
		t.Fatalf("customer plan after delete: %v %+v", err, out)
	}
}
