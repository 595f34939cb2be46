package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ococalli/internal/models/db_models"
)

type DeliveryListFilter struct {
	Zone       string
	CustomerID *uuid.UUID
}

type DeliveryRepository interface {
	Create(ctx context.Context, record *db_models.DeliveryRecord) error
	List(ctx context.Context, filter DeliveryListFilter) ([]db_models.DeliveryRecord, error)
}

type deliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) Create(ctx context.Context, record *db_models.DeliveryRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
}

// List returns delivery records newest first. A zone filter matches the
// location's zone exactly or a location whose name mentions it.
func (r *deliveryRepository) List(ctx context.Context, filter DeliveryListFilter) ([]db_models.DeliveryRecord, error) {
	q := r.db.WithContext(ctx).
		Preload("Customer", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("PickupLocation", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })

	if zone := strings.ToLower(strings.TrimSpace(filter.Zone)); zone != "" {
		sub := r.db.WithContext(ctx).Unscoped().Model(&db_models.PickupLocation{}).
			Select("id").
			Where(`LOWER(zone) = ? OR LOWER(name) LIKE ? ESCAPE '\'`, zone, "%"+escapeLike(zone)+"%")
		q = q.Where("pickup_location_id IN (?)", sub)
	}
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}

	var records []db_models.DeliveryRecord
	err := q.Order("delivery_time DESC").Find(&records).Error
	return records, err
}
