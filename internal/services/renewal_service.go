package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	dbm "ococalli/internal/models/db_models"
	"ococalli/internal/models/request_models"
	resp "ococalli/internal/models/response_models"
	"ococalli/internal/repositories"
	"ococalli/pkg/utils"
)

type RenewalService interface {
	CreateRenewal(ctx context.Context, req request_models.CreateRenewalRequest) (*resp.RenewalResponse, error)
	ListRenewals(ctx context.Context, filter request_models.RenewalFilter) ([]resp.RenewalResponse, error)
}

type renewalService struct {
	db        *gorm.DB
	customers repositories.CustomerRepository
	plans     repositories.IPlanRepository
	renewals  repositories.RenewalRepository
	mailer    IMailService
	clock     utils.Clock
	log       *zap.Logger
}

func NewRenewalService(
	db *gorm.DB,
	customers repositories.CustomerRepository,
	plans repositories.IPlanRepository,
	renewals repositories.RenewalRepository,
	mailer IMailService,
	clock utils.Clock,
	log *zap.Logger,
) RenewalService {
	return &renewalService{
		db:        db,
		customers: customers,
		plans:     plans,
		renewals:  renewals,
		mailer:    mailer,
		clock:     clock,
		log:       log.Named("renewals"),
	}
}

// CreateRenewal records a payment and moves the customer's membership
// window. The ledger row and the customer update commit together.
func (s *renewalService) CreateRenewal(ctx context.Context, req request_models.CreateRenewalRequest) (*resp.RenewalResponse, error) {
	customerRef := strings.TrimSpace(req.CustomerID)
	planRef := strings.TrimSpace(req.MembershipPlanID)
	if customerRef == "" || planRef == "" {
		return nil, utils.ErrMissingRenewalRef
	}
	customerID, err := uuid.Parse(customerRef)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid customer id", utils.ErrValidation)
	}
	planID, err := uuid.Parse(planRef)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid plan id", utils.ErrValidation)
	}
	if req.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", utils.ErrValidation)
	}

	now := s.clock.Now()
	renewalDate := now
	if d, err := parseDateField("renewal_date", req.RenewalDate); err != nil {
		return nil, err
	} else if d != nil {
		renewalDate = *d
	}

	concept := strings.TrimSpace(req.Concept)
	if concept == "" {
		concept = dbm.DefaultRenewalConcept
	}

	var (
		renewal  *dbm.Renewal
		customer *dbm.Customer
		plan     *dbm.MembershipPlan
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customers := s.customers.WithTx(tx)

		customer, err = customers.FindByIdForUpdate(ctx, customerID)
		if err != nil {
			return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		if customer == nil {
			return fmt.Errorf("%w: customer", utils.RecordNotFound)
		}

		plan, err = s.plans.WithTx(tx).GetPlanInfoById(ctx, planID)
		if err != nil {
			return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		if plan == nil {
			return fmt.Errorf("%w: membership plan", utils.RecordNotFound)
		}

		window := ComputeRenewal(*customer, *plan, now)

		renewal = &dbm.Renewal{
			CustomerID:       customer.ID,
			MembershipPlanID: plan.ID,
			RenewalDate:      renewalDate,
			Concept:          concept,
			Amount:           float64(req.Amount),
			MethodOfPayment:  strings.TrimSpace(req.MethodOfPayment),
			ReceivedBy:       strings.TrimSpace(req.ReceivedBy),
			PreviousEndDate:  window.PreviousEndDate,
			NewStartDate:     window.StartDate,
			NewEndDate:       window.EndDate,
		}
		if err := s.renewals.WithTx(tx).Insert(ctx, renewal); err != nil {
			return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}

		return customers.Update(ctx, customer.ID, map[string]interface{}{
			"start_date": window.StartDate,
			"end_date":   window.EndDate,
			"status":     window.Status,
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.RecordNotFound
		}
		if errors.Is(err, utils.RecordNotFound) || errors.Is(err, utils.ErrDatabaseError) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	s.log.Info("renewal recorded",
		zap.String("customer_id", customer.ID.String()),
		zap.String("plan_id", plan.ID.String()),
		zap.Timep("previous_end_date", renewal.PreviousEndDate),
		zap.Time("new_end_date", renewal.NewEndDate),
		zap.Float64("amount", renewal.Amount))

	if s.mailer != nil {
		receipt := RenewalReceipt{
			MembershipCode: customer.MembershipCode,
			PlanName:       plan.Name,
			Concept:        renewal.Concept,
			Amount:         renewal.Amount,
			Method:         renewal.MethodOfPayment,
			StartDate:      renewal.NewStartDate,
			EndDate:        renewal.NewEndDate,
		}
		if err := s.mailer.SendRenewalReceipt(ctx, customer.Email, customer.Name, receipt); err != nil {
			s.log.Warn("renewal receipt failed", zap.String("customer_id", customer.ID.String()), zap.Error(err))
		}
	}

	customer.Status = dbm.StatusActive
	renewal.Customer = customer
	renewal.MembershipPlan = plan
	out := toRenewalResponse(renewal)
	return &out, nil
}

func (s *renewalService) ListRenewals(ctx context.Context, filter request_models.RenewalFilter) ([]resp.RenewalResponse, error) {
	var customerID *uuid.UUID
	if ref := strings.TrimSpace(filter.CustomerID); ref != "" {
		id, err := uuid.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid customer id", utils.ErrValidation)
		}
		customerID = &id
	}

	renewals, err := s.renewals.List(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	out := make([]resp.RenewalResponse, 0, len(renewals))
	for i := range renewals {
		out = append(out, toRenewalResponse(&renewals[i]))
	}
	return out, nil
}
