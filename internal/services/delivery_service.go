package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	dbm "ococalli/internal/models/db_models"
	"ococalli/internal/models/request_models"
	resp "ococalli/internal/models/response_models"
	"ococalli/internal/repositories"
	"ococalli/pkg/utils"
)

type DeliveryService interface {
	CreateDelivery(ctx context.Context, req request_models.CreateDeliveryRequest) (*resp.DeliveryRecordResponse, error)
	ListDeliveries(ctx context.Context, filter request_models.DeliveryFilter) ([]resp.DeliveryRecordResponse, error)
}

type deliveryService struct {
	deliveries repositories.DeliveryRepository
	customers  repositories.CustomerRepository
	locations  repositories.PickupLocationRepository
	clock      utils.Clock
	log        *zap.Logger
}

func NewDeliveryService(
	deliveries repositories.DeliveryRepository,
	customers repositories.CustomerRepository,
	locations repositories.PickupLocationRepository,
	clock utils.Clock,
	log *zap.Logger,
) DeliveryService {
	return &deliveryService{
		deliveries: deliveries,
		customers:  customers,
		locations:  locations,
		clock:      clock,
		log:        log.Named("deliveries"),
	}
}

// CreateDelivery logs a huacal hand-off. Without an explicit location the
// customer's own pickup location is used.
func (s *deliveryService) CreateDelivery(ctx context.Context, req request_models.CreateDeliveryRequest) (*resp.DeliveryRecordResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid customer id", utils.ErrValidation)
	}
	customer, err := s.customers.FindById(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: customer", utils.RecordNotFound)
	}
	if req.Quantity < 0 || req.ReturnedHuacals < 0 || req.CashPayment < 0 {
		return nil, fmt.Errorf("%w: quantities must not be negative", utils.ErrValidation)
	}

	record := &dbm.DeliveryRecord{
		CustomerID:      customer.ID,
		DeliveryTime:    s.clock.Now(),
		TransportType:   dbm.TransportHuacal,
		Quantity:        req.Quantity,
		ReturnedHuacals: req.ReturnedHuacals,
		PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
		CashPayment:     req.CashPayment,
		Status:          dbm.DeliveryStatusPending,
		HomeAddress:     trimmedPtr(req.HomeAddress),
		Customer:        customer,
	}
	if record.Quantity == 0 {
		record.Quantity = 1
	}
	if t := strings.TrimSpace(req.TransportType); t != "" {
		record.TransportType = t
	}
	if st := strings.TrimSpace(req.Status); st != "" {
		record.Status = st
	}
	if req.DeliveryTime != "" {
		t, err := utils.ParseDate(req.DeliveryTime)
		if err != nil {
			return nil, fmt.Errorf("%w: delivery_time must be a date or RFC3339 time", utils.ErrValidation)
		}
		record.DeliveryTime = *t
	}

	switch {
	case req.PickupLocationID != nil && *req.PickupLocationID != "":
		locID, err := uuid.Parse(*req.PickupLocationID)
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
		record.PickupLocationID = &loc.ID
		record.PickupLocation = loc
	case customer.PickupLocationID != nil:
		record.PickupLocationID = customer.PickupLocationID
		record.PickupLocation = customer.PickupLocation
	}

	if req.Extras != nil {
		record.Extras = datatypes.JSONMap{
			"chocolate":   defaultString(req.Extras.Chocolate, "none"),
			"blueberries": req.Extras.Blueberries,
			"cherries":    req.Extras.Cherries,
		}
		if note := strings.TrimSpace(req.Extras.Note); note != "" {
			record.Extras["note"] = note
		}
	}

	// The extra item and its price only exist when the form says so.
	if req.HasExtra {
		record.ExtraItem = trimmedPtr(req.ExtraItem)
		if req.ExtraPrice != nil {
			if *req.ExtraPrice < 0 {
				return nil, fmt.Errorf("%w: extra_price must not be negative", utils.ErrValidation)
			}
			price := *req.ExtraPrice
			record.ExtraPrice = &price
		}
	}

	if err := s.deliveries.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	s.log.Info("delivery recorded",
		zap.String("customer_id", customer.ID.String()),
		zap.Int("quantity", record.Quantity),
		zap.Int("returned", record.ReturnedHuacals))

	out := toDeliveryResponse(record)
	return &out, nil
}

func (s *deliveryService) ListDeliveries(ctx context.Context, filter request_models.DeliveryFilter) ([]resp.DeliveryRecordResponse, error) {
	f := repositories.DeliveryListFilter{Zone: filter.Zone}
	if ref := strings.TrimSpace(filter.CustomerID); ref != "" {
		id, err := uuid.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid customer id", utils.ErrValidation)
		}
		f.CustomerID = &id
	}

	records, err := s.deliveries.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	out := make([]resp.DeliveryRecordResponse, 0, len(records))
	for i := range records {
		out = append(out, toDeliveryResponse(&records[i]))
	}
	return out, nil
}

func defaultString(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
