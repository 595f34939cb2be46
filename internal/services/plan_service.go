package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbm "ococalli/internal/models/db_models"
	"ococalli/internal/models/request_models"
	"ococalli/internal/models/response_models"
	"ococalli/internal/repositories"
	"ococalli/pkg/utils"
)

type PlanServiceInterface interface {
	GetPlans(ctx context.Context) ([]response_models.PlanResponse, error)
	GetPlanInfoById(ctx context.Context, planId string) (*response_models.PlanResponse, error)
	CreatePlan(ctx context.Context, req request_models.PlanRequest) (*response_models.PlanResponse, error)
	UpdatePlan(ctx context.Context, planId string, req request_models.PlanRequest) (*response_models.PlanResponse, error)
	DeletePlan(ctx context.Context, planId string) error
}

func NewPlanService(planRepo repositories.IPlanRepository) PlanServiceInterface {
	return &PlanService{
		planRepo: planRepo,
	}
}

type PlanService struct {
	planRepo repositories.IPlanRepository
}

func (p *PlanService) GetPlans(ctx context.Context) ([]response_models.PlanResponse, error) {
	plans, err := p.planRepo.GetAllPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	out := make([]response_models.PlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, *toPlanResponse(&plans[i]))
	}
	return out, nil
}

func (p *PlanService) GetPlanInfoById(ctx context.Context, planId string) (*response_models.PlanResponse, error) {
	plan, err := p.findPlan(ctx, planId)
	if err != nil {
		return nil, err
	}
	return toPlanResponse(plan), nil
}

func (p *PlanService) CreatePlan(ctx context.Context, req request_models.PlanRequest) (*response_models.PlanResponse, error) {
	plan := &dbm.MembershipPlan{}
	if err := applyPlanRequest(plan, req); err != nil {
		return nil, err
	}

	if err := p.planRepo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return toPlanResponse(plan), nil
}

func (p *PlanService) UpdatePlan(ctx context.Context, planId string, req request_models.PlanRequest) (*response_models.PlanResponse, error) {
	plan, err := p.findPlan(ctx, planId)
	if err != nil {
		return nil, err
	}
	if err := applyPlanRequest(plan, req); err != nil {
		return nil, err
	}

	if err := p.planRepo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return toPlanResponse(plan), nil
}

// DeletePlan refuses while active customers still point at the plan.
func (p *PlanService) DeletePlan(ctx context.Context, planId string) error {
	id, err := uuid.Parse(planId)
	if err != nil {
		return fmt.Errorf("%w: invalid plan id", utils.ErrValidation)
	}

	inUse, err := p.planRepo.CountActiveCustomers(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if inUse > 0 {
		return fmt.Errorf("%w (%d)", utils.ErrPlanInUse, inUse)
	}

	if err := p.planRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.RecordNotFound
		}
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (p *PlanService) findPlan(ctx context.Context, planId string) (*dbm.MembershipPlan, error) {
	id, err := uuid.Parse(planId)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid plan id", utils.ErrValidation)
	}

	plan, err := p.planRepo.GetPlanInfoById(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if plan == nil {
		return nil, utils.RecordNotFound
	}
	return plan, nil
}

// applyPlanRequest validates req and copies it onto plan. A zero duration
// means the one-month default.
func applyPlanRequest(plan *dbm.MembershipPlan, req request_models.PlanRequest) error {
	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		return fmt.Errorf("%w: name is required", utils.ErrValidation)
	case req.DurationMonths < 0:
		return fmt.Errorf("%w: duration_months must be at least 1", utils.ErrValidation)
	case req.FreeMonths < 0:
		return fmt.Errorf("%w: free_months must not be negative", utils.ErrValidation)
	case req.Price < 0 || req.SubscriptionFee < 0:
		return fmt.Errorf("%w: amounts must not be negative", utils.ErrValidation)
	}

	plan.Name = name
	plan.Description = req.Description
	plan.Price = req.Price
	plan.DurationMonths = req.DurationMonths
	if plan.DurationMonths == 0 {
		plan.DurationMonths = 1
	}
	plan.FreeMonths = req.FreeMonths
	plan.SubscriptionFee = req.SubscriptionFee
	return nil
}
