package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
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

// UnassignedLabel names the unassigned group in exports and reports.
const UnassignedLabel = "Sin ubicación asignada"

type PickupService interface {
	ListLocations(ctx context.Context) ([]resp.PickupLocationResponse, error)
	GetLocation(ctx context.Context, id string) (*resp.PickupLocationResponse, error)
	CreateLocation(ctx context.Context, req request_models.PickupLocationRequest) (*resp.PickupLocationResponse, error)
	UpdateLocation(ctx context.Context, id string, req request_models.PickupLocationRequest) (*resp.PickupLocationResponse, error)
	DeleteLocation(ctx context.Context, id string) error

	GroupByPickupLocation(ctx context.Context) (*resp.PickupReport, error)
	// MarkDelivered reports whether this call changed anything.
	MarkDelivered(ctx context.Context, customerID string) (*resp.CustomerResponse, bool, error)
}

type pickupService struct {
	locations repositories.PickupLocationRepository
	customers repositories.CustomerRepository
	clock     utils.Clock
	log       *zap.Logger
}

func NewPickupService(
	locations repositories.PickupLocationRepository,
	customers repositories.CustomerRepository,
	clock utils.Clock,
	log *zap.Logger,
) PickupService {
	return &pickupService{
		locations: locations,
		customers: customers,
		clock:     clock,
		log:       log.Named("pickups"),
	}
}

func (s *pickupService) ListLocations(ctx context.Context) ([]resp.PickupLocationResponse, error) {
	locations, err := s.locations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	out := make([]resp.PickupLocationResponse, 0, len(locations))
	for i := range locations {
		out = append(out, *toLocationResponse(&locations[i]))
	}
	return out, nil
}

func (s *pickupService) GetLocation(ctx context.Context, id string) (*resp.PickupLocationResponse, error) {
	loc, err := s.findLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

func (s *pickupService) CreateLocation(ctx context.Context, req request_models.PickupLocationRequest) (*resp.PickupLocationResponse, error) {
	loc := &dbm.PickupLocation{}
	if err := applyLocationRequest(loc, req); err != nil {
		return nil, err
	}
	if err := s.locations.Create(ctx, loc); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return toLocationResponse(loc), nil
}

func (s *pickupService) UpdateLocation(ctx context.Context, id string, req request_models.PickupLocationRequest) (*resp.PickupLocationResponse, error) {
	loc, err := s.findLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyLocationRequest(loc, req); err != nil {
		return nil, err
	}
	if err := s.locations.Update(ctx, loc); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return toLocationResponse(loc), nil
}

func (s *pickupService) DeleteLocation(ctx context.Context, id string) error {
	locID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid pickup location id", utils.ErrValidation)
	}

	n, err := s.customers.CountByPickupLocation(ctx, locID)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if n > 0 {
		return fmt.Errorf("%w (%d)", utils.ErrLocationInUse, n)
	}

	if err := s.locations.Delete(ctx, locID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.RecordNotFound
		}
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

// GroupByPickupLocation partitions every customer by pickup location. Named
// groups sort by location name then id, and the unassigned group is last.
func (s *pickupService) GroupByPickupLocation(ctx context.Context) (*resp.PickupReport, error) {
	customers, err := s.customers.List(ctx, repositories.CustomerListFilter{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return BuildPickupReport(customers), nil
}

// BuildPickupReport groups customers in memory. A customer whose location no
// longer exists is unassigned.
func BuildPickupReport(customers []dbm.Customer) *resp.PickupReport {
	named := map[uuid.UUID]*resp.PickupGroup{}
	var unassigned *resp.PickupGroup
	report := &resp.PickupReport{Groups: []resp.PickupGroup{}}

	for i := range customers {
		c := &customers[i]

		var group *resp.PickupGroup
		if c.PickupLocationID == nil || c.PickupLocation == nil {
			if unassigned == nil {
				unassigned = &resp.PickupGroup{Key: resp.UnassignedGroupKey}
			}
			group = unassigned
		} else {
			group = named[*c.PickupLocationID]
			if group == nil {
				group = &resp.PickupGroup{
					Key:      c.PickupLocationID.String(),
					Location: toLocationResponse(c.PickupLocation),
				}
				named[*c.PickupLocationID] = group
			}
		}

		group.Customers = append(group.Customers, toPickupCustomer(c))
		group.Total++
		report.Total++
		if c.Delivered {
			group.Delivered++
			report.Delivered++
		} else {
			group.Pending++
			report.Pending++
		}
	}

	for _, g := range named {
		report.Groups = append(report.Groups, *g)
	}
	sort.Slice(report.Groups, func(i, j int) bool {
		a, b := report.Groups[i].Location, report.Groups[j].Location
		if an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name); an != bn {
			return an < bn
		}
		return a.ID.String() < b.ID.String()
	})
	if unassigned != nil {
		report.Groups = append(report.Groups, *unassigned)
	}
	return report
}

func (s *pickupService) MarkDelivered(ctx context.Context, customerID string) (*resp.CustomerResponse, bool, error) {
	id, err := uuid.Parse(customerID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: invalid customer id", utils.ErrValidation)
	}

	changed, err := s.customers.MarkDelivered(ctx, id, s.clock.Now())
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	customer, err := s.customers.FindById(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if customer == nil {
		return nil, false, utils.RecordNotFound
	}

	if changed {
		s.log.Info("pickup delivered", zap.String("customer_id", id.String()))
	}
	out := toCustomerResponse(customer, s.clock.Now())
	return &out, changed, nil
}

func (s *pickupService) findLocation(ctx context.Context, id string) (*dbm.PickupLocation, error) {
	locID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid pickup location id", utils.ErrValidation)
	}
	loc, err := s.locations.FindById(ctx, locID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if loc == nil {
		return nil, utils.RecordNotFound
	}
	return loc, nil
}

func applyLocationRequest(loc *dbm.PickupLocation, req request_models.PickupLocationRequest) error {
	name, address := strings.TrimSpace(req.Name), strings.TrimSpace(req.Address)
	if name == "" || address == "" {
		return fmt.Errorf("%w: name and address are required", utils.ErrValidation)
	}
	loc.Name = name
	loc.Address = address
	loc.Schedule = trimmedPtr(req.Schedule)
	loc.Zone = trimmedPtr(req.Zone)

	days := make(dbm.DeliveryDays, 0, len(req.DeliveryDays))
	for _, d := range req.DeliveryDays {
		if d = strings.TrimSpace(d); d != "" {
			days = append(days, d)
		}
	}
	loc.DeliveryDays = days
	return nil
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return optionalString(*s)
}

func toPickupCustomer(c *dbm.Customer) resp.PickupCustomer {
	out := resp.PickupCustomer{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		MembershipCode: c.MembershipCode,
		Status:         string(c.Status),
		Delivered:      c.Delivered,
		DeliveredAt:    c.DeliveredAt,
	}
	if c.MembershipPlan != nil {
		out.PlanName = c.MembershipPlan.Name
	}
	return out
}
