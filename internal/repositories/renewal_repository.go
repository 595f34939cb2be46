package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ococalli/internal/models/db_models"
)

// RenewalRepository is insert-and-read only: renewals are a ledger.
type RenewalRepository interface {
	Insert(ctx context.Context, renewal *db_models.Renewal) error
	List(ctx context.Context, customerID *uuid.UUID) ([]db_models.Renewal, error)
	SummarySince(ctx context.Context, since time.Time) (count int64, total float64, err error)
	WithTx(tx *gorm.DB) RenewalRepository
}

type renewalRepository struct {
	db *gorm.DB
}

func NewRenewalRepository(db *gorm.DB) RenewalRepository {
	return &renewalRepository{db: db}
}

func (r *renewalRepository) WithTx(tx *gorm.DB) RenewalRepository {
	return &renewalRepository{db: tx}
}

func (r *renewalRepository) Insert(ctx context.Context, renewal *db_models.Renewal) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(renewal).Error
}

// List returns renewals newest first with their customer and plan. Deleted
// customers and plans stay visible, the ledger outlives them.
func (r *renewalRepository) List(ctx context.Context, customerID *uuid.UUID) ([]db_models.Renewal, error) {
	q := r.db.WithContext(ctx).
		Preload("Customer", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("MembershipPlan", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
	if customerID != nil {
		q = q.Where("customer_id = ?", *customerID)
	}
	var renewals []db_models.Renewal
	err := q.Order("renewal_date DESC").Order("created_at DESC").Find(&renewals).Error
	return renewals, err
}

func (r *renewalRepository) SummarySince(ctx context.Context, since time.Time) (int64, float64, error) {
	var row struct {
		Count int64
		Total float64
	}
	err := r.db.WithContext(ctx).Model(&db_models.Renewal{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("renewal_date >= ?", since).
		Scan(&row).Error
	return row.Count, row.Total, err
}
