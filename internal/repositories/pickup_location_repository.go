package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ococalli/internal/models/db_models"
)

type PickupLocationRepository interface {
	List(ctx context.Context) ([]db_models.PickupLocation, error)
	FindById(ctx context.Context, id uuid.UUID) (*db_models.PickupLocation, error)
	Create(ctx context.Context, location *db_models.PickupLocation) error
	Update(ctx context.Context, location *db_models.PickupLocation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type pickupLocationRepository struct {
	db *gorm.DB
}

func NewPickupLocationRepository(db *gorm.DB) PickupLocationRepository {
	return &pickupLocationRepository{db: db}
}

// List returns the newest locations first.
func (r *pickupLocationRepository) List(ctx context.Context) ([]db_models.PickupLocation, error) {
	var locations []db_models.PickupLocation
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("name ASC").Find(&locations).Error
	return locations, err
}

func (r *pickupLocationRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.PickupLocation, error) {
	var location db_models.PickupLocation
	err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &location, nil
}

func (r *pickupLocationRepository) Create(ctx context.Context, location *db_models.PickupLocation) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *pickupLocationRepository) Update(ctx context.Context, location *db_models.PickupLocation) error {
	return r.db.WithContext(ctx).Model(location).
		Select("name", "address", "schedule", "zone", "delivery_days").
		Updates(location).Error
}

func (r *pickupLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&db_models.PickupLocation{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
