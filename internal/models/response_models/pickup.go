package response_models

import (
	"time"

	"github.com/google/uuid"
)

const UnassignedGroupKey = "unassigned"

type PickupCustomer struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          *string    `json:"phone,omitempty"`
	MembershipCode string     `json:"membership_code"`
	Status         string     `json:"status"`
	PlanName       string     `json:"plan_name,omitempty"`
	Delivered      bool       `json:"delivered"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
}

// PickupGroup is one cell of the partition of customers by pickup location.
// Location is nil for the unassigned group.
type PickupGroup struct {
	Key       string                  `json:"key"`
	Location  *PickupLocationResponse `json:"location,omitempty"`
	Customers []PickupCustomer        `json:"customers"`
	Total     int                     `json:"total"`
	Delivered int                     `json:"delivered"`
	Pending   int                     `json:"pending"`
}

type PickupReport struct {
	Groups    []PickupGroup `json:"groups"`
	Total     int           `json:"total"`
	Delivered int           `json:"delivered"`
	Pending   int           `json:"pending"`
}
