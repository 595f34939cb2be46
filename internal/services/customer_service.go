package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	dbm "ococalli/internal/models/db_models"
	"ococalli/internal/models/request_models"
	resp "ococalli/internal/models/response_models"
	"ococalli/internal/repositories"
	"ococalli/pkg/utils"
)

type CustomerService interface {
	Register(ctx context.Context, req request_models.RegisterRequest) (*resp.RegisterResponse, error)
	CreateCustomer(ctx context.Context, req request_models.CreateCustomerRequest) (*resp.CustomerResponse, error)
	ListCustomers(ctx context.Context, filter request_models.CustomerFilter) ([]resp.CustomerResponse, error)
	ListEndingWithin(ctx context.Context, days int) ([]resp.CustomerResponse, error)
	GetCustomer(ctx context.Context, id string) (*resp.CustomerResponse, error)
	UpdateCustomer(ctx context.Context, id string, req request_models.UpdateCustomerRequest) (*resp.CustomerResponse, error)
	CancelCustomer(ctx context.Context, id string) (*resp.CustomerResponse, error)
	DeleteCustomer(ctx context.Context, id string) error
	LookupByCode(ctx context.Context, code string) (*resp.PublicMembershipResponse, error)
	SetPickupLocation(ctx context.Context, customerID string, req request_models.SetPickupLocationRequest) (*resp.CustomerResponse, error)
}

type customerService struct {
	customers repositories.CustomerRepository
	plans     repositories.IPlanRepository
	locations repositories.PickupLocationRepository
	codes     utils.CodeGenerator
	mailer    IMailService
	clock     utils.Clock
	log       *zap.Logger
}

func NewCustomerService(
	customers repositories.CustomerRepository,
	plans repositories.IPlanRepository,
	locations repositories.PickupLocationRepository,
	codes utils.CodeGenerator,
	mailer IMailService,
	clock utils.Clock,
	log *zap.Logger,
) CustomerService {
	return &customerService{
		customers: customers,
		plans:     plans,
		locations: locations,
		codes:     codes,
		mailer:    mailer,
		clock:     clock,
		log:       log.Named("customers"),
	}
}

// Register is the public sign-up: the membership starts PENDING until the
// first renewal is recorded.
func (s *customerService) Register(ctx context.Context, req request_models.RegisterRequest) (*resp.RegisterResponse, error) {
	customer, plan, err := s.newCustomer(ctx, req)
	if err != nil {
		return nil, err
	}
	customer.Status = dbm.StatusPending

	if err := s.insert(ctx, customer); err != nil {
		return nil, err
	}

	s.log.Info("customer registered",
		zap.String("customer_id", customer.ID.String()),
		zap.String("membership_code", customer.MembershipCode))
	s.sendWelcome(ctx, customer, plan)

	return &resp.RegisterResponse{
		CustomerID:     customer.ID,
		MembershipCode: customer.MembershipCode,
		Status:         string(customer.Status),
	}, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, req request_models.CreateCustomerRequest) (*resp.CustomerResponse, error) {
	customer, plan, err := s.newCustomer(ctx, req.RegisterRequest)
	if err != nil {
		return nil, err
	}

	customer.Status = dbm.StatusPending
	if req.Status != "" {
		status := dbm.CustomerStatus(strings.ToUpper(req.Status))
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", utils.ErrValidation, req.Status)
		}
		customer.Status = status
	}

	if req.PickupLocationID != nil && *req.PickupLocationID != "" {
		loc, err := s.resolveLocation(ctx, *req.PickupLocationID)
		if err != nil {
			return nil, err
		}
		customer.PickupLocationID = &loc.ID
	}

	if customer.StartDate, err = parseDateField("start_date", req.StartDate); err != nil {
		return nil, err
	}
	if customer.EndDate, err = parseDateField("end_date", req.EndDate); err != nil {
		return nil, err
	}
	if err := checkDateRange(customer.StartDate, customer.EndDate); err != nil {
		return nil, err
	}

	if err := s.insert(ctx, customer); err != nil {
		return nil, err
	}
	s.sendWelcome(ctx, customer, plan)

	return s.GetCustomer(ctx, customer.ID.String())
}

func (s *customerService) ListCustomers(ctx context.Context, filter request_models.CustomerFilter) ([]resp.CustomerResponse, error) {
	f := repositories.CustomerListFilter{Query: filter.Query}
	if filter.Status != "" {
		status := dbm.CustomerStatus(strings.ToUpper(filter.Status))
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", utils.ErrValidation, filter.Status)
		}
		f.Status = status
	}

	customers, err := s.customers.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	now := s.clock.Now()
	out := make([]resp.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, toCustomerResponse(&customers[i], now))
	}
	return out, nil
}

// ListEndingWithin returns customers whose membership ends within days of
// now, already expired ones included. Status is not filtered here.
func (s *customerService) ListEndingWithin(ctx context.Context, days int) ([]resp.CustomerResponse, error) {
	now := s.clock.Now()
	customers, err := s.customers.ListWithEndDateBefore(ctx, now.AddDate(0, 0, days+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	out := make([]resp.CustomerResponse, 0, len(customers))
	for i := range customers {
		c := toCustomerResponse(&customers[i], now)
		if d := c.Membership.DaysRemaining; d != nil && *d > days {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*resp.CustomerResponse, error) {
	customer, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toCustomerResponse(customer, s.clock.Now())
	return &out, nil
}

// UpdateCustomer applies the present fields. The membership code is never
// part of the update set.
func (s *customerService) UpdateCustomer(ctx context.Context, id string, req request_models.UpdateCustomerRequest) (*resp.CustomerResponse, error) {
	customer, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", utils.ErrValidation)
		}
		fields["name"] = name
	}
	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		if email != customer.Email {
			existing, err := s.customers.FindByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
			}
			if existing != nil && existing.ID != customer.ID {
				return nil, utils.ErrEmailAlreadyExists
			}
			fields["email"] = email
		}
	}
	if req.Phone != nil {
		fields["phone"] = optionalString(*req.Phone)
	}
	if req.Status != nil {
		status := dbm.CustomerStatus(strings.ToUpper(*req.Status))
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", utils.ErrValidation, *req.Status)
		}
		fields["status"] = status
	}
	if req.MembershipPlanID != nil {
		plan, err := s.resolvePlan(ctx, *req.MembershipPlanID)
		if err != nil {
			return nil, err
		}
		fields["membership_plan_id"] = plan.ID
	}
	if req.PickupLocationID != nil {
		if *req.PickupLocationID == "" {
			fields["pickup_location_id"] = nil
		} else {
			loc, err := s.resolveLocation(ctx, *req.PickupLocationID)
			if err != nil {
				return nil, err
			}
			fields["pickup_location_id"] = loc.ID
		}
	}

	start, end := customer.StartDate, customer.EndDate
	if req.StartDate != nil {
		if start, err = parseDateField("start_date", *req.StartDate); err != nil {
			return nil, err
		}
		fields["start_date"] = start
	}
	if req.EndDate != nil {
		if end, err = parseDateField("end_date", *req.EndDate); err != nil {
			return nil, err
		}
		fields["end_date"] = end
	}
	if err := checkDateRange(start, end); err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := s.customers.Update(ctx, customer.ID, fields); err != nil {
			return nil, mapWriteError(err)
		}
	}
	return s.GetCustomer(ctx, id)
}

func (s *customerService) CancelCustomer(ctx context.Context, id string) (*resp.CustomerResponse, error) {
	customer, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.customers.Update(ctx, customer.ID, map[string]interface{}{"status": dbm.StatusCancelled}); err != nil {
		return nil, mapWriteError(err)
	}
	s.log.Info("membership cancelled", zap.String("customer_id", customer.ID.String()))
	return s.GetCustomer(ctx, id)
}

// DeleteCustomer soft-deletes so renewal history keeps its customer.
func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid customer id", utils.ErrValidation)
	}
	if err := s.customers.Delete(ctx, customerID); err != nil {
		return mapWriteError(err)
	}
	s.log.Info("customer deleted", zap.String("customer_id", id))
	return nil
}

func (s *customerService) LookupByCode(ctx context.Context, code string) (*resp.PublicMembershipResponse, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: membership code is required", utils.ErrValidation)
	}
	customer, err := s.customers.FindByMembershipCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if customer == nil {
		return nil, utils.RecordNotFound
	}
	out := toPublicMembership(customer, s.clock.Now())
	return &out, nil
}

// SetPickupLocation is the member self-service path; an empty id clears it.
func (s *customerService) SetPickupLocation(ctx context.Context, customerID string, req request_models.SetPickupLocationRequest) (*resp.CustomerResponse, error) {
	customer, err := s.find(ctx, customerID)
	if err != nil {
		return nil, err
	}

	var value interface{}
	if req.PickupLocationID != nil && *req.PickupLocationID != "" {
		loc, err := s.resolveLocation(ctx, *req.PickupLocationID)
		if err != nil {
			return nil, err
		}
		value = loc.ID
	}

	if err := s.customers.Update(ctx, customer.ID, map[string]interface{}{"pickup_location_id": value}); err != nil {
		return nil, mapWriteError(err)
	}
	return s.GetCustomer(ctx, customerID)
}

// newCustomer validates the registration fields and builds an unsaved row
// with a fresh membership code.
func (s *customerService) newCustomer(ctx context.Context, req request_models.RegisterRequest) (*dbm.Customer, *dbm.MembershipPlan, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, nil, fmt.Errorf("%w: name is required", utils.ErrValidation)
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, nil, err
	}
	if len(req.Password) < 6 {
		return nil, nil, fmt.Errorf("%w: password must be at least 6 characters", utils.ErrValidation)
	}
	plan, err := s.resolvePlan(ctx, req.MembershipPlanID)
	if err != nil {
		return nil, nil, err
	}

	existing, err := s.customers.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if existing != nil {
		return nil, nil, utils.ErrEmailAlreadyExists
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	var phone *string
	if req.Phone != nil {
		phone = optionalString(*req.Phone)
	}

	return &dbm.Customer{
		Name:             name,
		Email:            email,
		Phone:            phone,
		PasswordHash:     hash,
		MembershipCode:   s.codes.NewMembershipCode(),
		MembershipPlanID: plan.ID,
	}, plan, nil
}

func (s *customerService) insert(ctx context.Context, customer *dbm.Customer) error {
	if err := s.customers.Create(ctx, customer); err != nil {
		if utils.IsUniqueViolation(err) {
			return utils.ErrEmailAlreadyExists
		}
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (s *customerService) sendWelcome(ctx context.Context, customer *dbm.Customer, plan *dbm.MembershipPlan) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.SendWelcome(ctx, customer.Email, customer.Name, customer.MembershipCode, plan.Name); err != nil {
		s.log.Warn("welcome mail failed", zap.String("customer_id", customer.ID.String()), zap.Error(err))
	}
}

func (s *customerService) find(ctx context.Context, id string) (*dbm.Customer, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid customer id", utils.ErrValidation)
	}
	customer, err := s.customers.FindById(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if customer == nil {
		return nil, utils.RecordNotFound
	}
	return customer, nil
}

func (s *customerService) resolvePlan(ctx context.Context, id string) (*dbm.MembershipPlan, error) {
	planID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%w: a valid membership plan is required", utils.ErrValidation)
	}
	plan, err := s.plans.GetPlanInfoById(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: membership plan", utils.RecordNotFound)
	}
	return plan, nil
}

func (s *customerService) resolveLocation(ctx context.Context, id string) (*dbm.PickupLocation, error) {
	locID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid pickup location id", utils.ErrValidation)
	}
	loc, err := s.locations.FindById(ctx, locID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if loc == nil {
		return nil, fmt.Errorf("%w: pickup location", utils.RecordNotFound)
	}
	return loc, nil
}

func normalizeEmail(s string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(s))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", utils.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: invalid email", utils.ErrValidation)
	}
	return email, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func parseDateField(name, value string) (*time.Time, error) {
	t, err := utils.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", utils.ErrValidation, name)
	}
	return t, nil
}

func checkDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return utils.ErrInvalidDateRange
	}
	return nil
}

func mapWriteError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.RecordNotFound
	case utils.IsUniqueViolation(err):
		return utils.ErrDuplicateRecord
	default:
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
}
