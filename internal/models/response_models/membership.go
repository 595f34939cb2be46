package response_models

import (
	"time"

	"github.com/google/uuid"
)

// MembershipView is the derived, never persisted state shown next to a
// customer: effective end date, days left and the colour bucket.
type MembershipView struct {
	EndDate        *time.Time `json:"end_date,omitempty"`
	EndDateDerived bool       `json:"end_date_derived"`
	DaysRemaining  *int       `json:"days_remaining,omitempty"`
	Bucket         string     `json:"bucket"`
	Label          string     `json:"label"`
}

type PlanResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	Price           float64   `json:"price"`
	DurationMonths  int       `json:"duration_months"`
	FreeMonths      int       `json:"free_months"`
	TotalMonths     int       `json:"total_months"`
	SubscriptionFee float64   `json:"subscription_fee"`
}

type PickupLocationResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Schedule     *string   `json:"schedule,omitempty"`
	Zone         *string   `json:"zone,omitempty"`
	DeliveryDays []string  `json:"delivery_days"`
}

type CustomerResponse struct {
	ID             uuid.UUID               `json:"id"`
	Name           string                  `json:"name"`
	Email          string                  `json:"email"`
	Phone          *string                 `json:"phone,omitempty"`
	MembershipCode string                  `json:"membership_code"`
	Status         string                  `json:"status"`
	Plan           *PlanResponse           `json:"plan,omitempty"`
	PickupLocation *PickupLocationResponse `json:"pickup_location,omitempty"`
	StartDate      *time.Time              `json:"start_date,omitempty"`
	EndDate        *time.Time              `json:"end_date,omitempty"`
	Delivered      bool                    `json:"delivered"`
	DeliveredAt    *time.Time              `json:"delivered_at,omitempty"`
	Membership     MembershipView          `json:"membership"`
}

// PublicMembershipResponse is what a membership code lookup reveals.
type PublicMembershipResponse struct {
	Name           string                  `json:"name"`
	MembershipCode string                  `json:"membership_code"`
	Status         string                  `json:"status"`
	PlanName       string                  `json:"plan_name,omitempty"`
	StartDate      *time.Time              `json:"start_date,omitempty"`
	PickupLocation *PickupLocationResponse `json:"pickup_location,omitempty"`
	Membership     MembershipView          `json:"membership"`
}

type RegisterResponse struct {
	CustomerID     uuid.UUID `json:"customer_id"`
	MembershipCode string    `json:"membership_code"`
	Status         string    `json:"status"`
}
