package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ococalli/internal/models/db_models"
)

type IPlanRepository interface {
	GetPlanInfoById(ctx context.Context, planID uuid.UUID) (*db_models.MembershipPlan, error)
	GetAllPlans(ctx context.Context) ([]db_models.MembershipPlan, error)
	Create(ctx context.Context, plan *db_models.MembershipPlan) error
	Update(ctx context.Context, plan *db_models.MembershipPlan) error
	Delete(ctx context.Context, planID uuid.UUID) error
	CountActiveCustomers(ctx context.Context, planID uuid.UUID) (int64, error)
	WithTx(tx *gorm.DB) IPlanRepository
}

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) IPlanRepository {
	return &PlanRepository{db: db}
}

func (p *PlanRepository) WithTx(tx *gorm.DB) IPlanRepository {
	return &PlanRepository{db: tx}
}

func (p *PlanRepository) GetPlanInfoById(ctx context.Context, planID uuid.UUID) (*db_models.MembershipPlan, error) {
	var plan db_models.MembershipPlan
	err := p.db.WithContext(ctx).First(&plan, "id = ?", planID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &plan, nil
}

func (p *PlanRepository) GetAllPlans(ctx context.Context) ([]db_models.MembershipPlan, error) {
	var plans []db_models.MembershipPlan
	err := p.db.WithContext(ctx).Order("name ASC").Find(&plans).Error

	if err != nil {
		return nil, err
	}

	return plans, nil
}

func (p *PlanRepository) Create(ctx context.Context, plan *db_models.MembershipPlan) error {
	return p.db.WithContext(ctx).Create(plan).Error
}

func (p *PlanRepository) Update(ctx context.Context, plan *db_models.MembershipPlan) error {
	return p.db.WithContext(ctx).Model(plan).
		Select("name", "description", "price", "duration_months", "free_months", "subscription_fee").
		Updates(plan).Error
}

func (p *PlanRepository) Delete(ctx context.Context, planID uuid.UUID) error {
	res := p.db.WithContext(ctx).Delete(&db_models.MembershipPlan{}, "id = ?", planID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (p *PlanRepository) CountActiveCustomers(ctx context.Context, planID uuid.UUID) (int64, error) {
	var n int64
	err := p.db.WithContext(ctx).Model(&db_models.Customer{}).
		Where("membership_plan_id = ? AND status = ?", planID, db_models.StatusActive).
		Count(&n).Error
	return n, err
}
