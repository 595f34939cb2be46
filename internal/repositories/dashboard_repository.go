package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	dbm "ococalli/internal/models/db_models"
)

type DashboardRepository interface {
	CountPlans(ctx context.Context) (int64, error)
	CountCustomers(ctx context.Context) (int64, error)
	CountCustomersByStatus(ctx context.Context) (map[dbm.CustomerStatus]int64, error)
	CountDelivered(ctx context.Context) (delivered, pending int64, err error)
	CountPickupLocations(ctx context.Context) (int64, error)

	// MembershipWindows feeds the expiring/expired counts, which are derived
	// in Go so they follow the same bucket rules as the customer list.
	MembershipWindows(ctx context.Context) ([]MembershipWindowRow, error)

	RenewalSummary(ctx context.Context, since time.Time) (count int64, total float64, err error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

type statusCountRow struct {
	Status dbm.CustomerStatus `gorm:"column:status"`
	Count  int64              `gorm:"column:count"`
}

type MembershipWindowRow struct {
	StartDate      *time.Time `gorm:"column:start_date"`
	EndDate        *time.Time `gorm:"column:end_date"`
	DurationMonths int        `gorm:"column:duration_months"`
	FreeMonths     int        `gorm:"column:free_months"`
}

func (r *dashboardRepository) CountPlans(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.MembershipPlan{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Customer{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountCustomersByStatus(ctx context.Context) (map[dbm.CustomerStatus]int64, error) {
	var rows []statusCountRow
	err := r.db.WithContext(ctx).
		Model(&dbm.Customer{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[dbm.CustomerStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func (r *dashboardRepository) CountDelivered(ctx context.Context) (int64, int64, error) {
	var row struct {
		Delivered int64
		Pending   int64
	}
	err := r.db.WithContext(ctx).
		Model(&dbm.Customer{}).
		Select("COALESCE(SUM(CASE WHEN delivered THEN 1 ELSE 0 END), 0) AS delivered, " +
			"COALESCE(SUM(CASE WHEN delivered THEN 0 ELSE 1 END), 0) AS pending").
		Scan(&row).Error
	return row.Delivered, row.Pending, err
}

func (r *dashboardRepository) CountPickupLocations(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.PickupLocation{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) MembershipWindows(ctx context.Context) ([]MembershipWindowRow, error) {
	var rows []MembershipWindowRow
	err := r.db.WithContext(ctx).
		Table("customers").
		Select("customers.start_date, customers.end_date, "+
			"COALESCE(membership_plans.duration_months, 0) AS duration_months, "+
			"COALESCE(membership_plans.free_months, 0) AS free_months").
		Joins("LEFT JOIN membership_plans ON membership_plans.id = customers.membership_plan_id").
		Where("customers.deleted_at IS NULL").
		Where("customers.status = ?", dbm.StatusActive).
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepository) RenewalSummary(ctx context.Context, since time.Time) (int64, float64, error) {
	return NewRenewalRepository(r.db).SummarySince(ctx, since)
}
