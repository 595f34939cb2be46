package services

import (
	"context"
	"fmt"

	dbm "ococalli/internal/models/db_models"
	resp "ococalli/internal/models/response_models"
	"ococalli/internal/repositories"
	"ococalli/pkg/utils"
)

const statsWindowDays = 30

type DashboardService interface {
	BuildDashboard(ctx context.Context) (*resp.DashboardStats, error)
}

type dashboardService struct {
	repo  repositories.DashboardRepository
	clock utils.Clock
}

func NewDashboardService(repo repositories.DashboardRepository, clock utils.Clock) DashboardService {
	return &dashboardService{repo: repo, clock: clock}
}

func (s *dashboardService) BuildDashboard(ctx context.Context) (*resp.DashboardStats, error) {
	now := s.clock.Now()
	out := &resp.DashboardStats{}
	var err error

	// ---------- Core counts ----------
	if out.TotalPlans, err = s.repo.CountPlans(ctx); err != nil {
		return nil, wrapDB(err)
	}
	if out.TotalCustomers, err = s.repo.CountCustomers(ctx); err != nil {
		return nil, wrapDB(err)
	}
	if out.PickupLocations, err = s.repo.CountPickupLocations(ctx); err != nil {
		return nil, wrapDB(err)
	}

	byStatus, err := s.repo.CountCustomersByStatus(ctx)
	if err != nil {
		return nil, wrapDB(err)
	}
	out.ActiveCustomers = byStatus[dbm.StatusActive]
	out.CancelledCustomers = byStatus[dbm.StatusCancelled]
	out.PendingCustomers = byStatus[dbm.StatusPending]

	if out.Delivered, out.PendingDelivery, err = s.repo.CountDelivered(ctx); err != nil {
		return nil, wrapDB(err)
	}

	// ---------- Renewals ----------
	since := now.AddDate(0, 0, -statsWindowDays)
	if out.RenewalsLast30Days, out.RevenueLast30Days, err = s.repo.RenewalSummary(ctx, since); err != nil {
		return nil, wrapDB(err)
	}

	// ---------- Expiry, same buckets as the customer list ----------
	windows, err := s.repo.MembershipWindows(ctx)
	if err != nil {
		return nil, wrapDB(err)
	}
	for _, w := range windows {
		var plan *dbm.MembershipPlan
		if w.DurationMonths > 0 || w.FreeMonths > 0 {
			plan = &dbm.MembershipPlan{DurationMonths: w.DurationMonths, FreeMonths: w.FreeMonths}
		}
		view := DeriveMembershipStatus(w.StartDate, w.EndDate, plan, now)
		switch b := Bucket(view.Bucket); {
		case b == BucketExpired:
			out.Expired++
		case b.ExpiringSoon():
			out.ExpiringSoon++
		}
	}

	return out, nil
}

func wrapDB(err error) error {
	return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
}
