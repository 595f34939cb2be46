package response_models

import (
	"time"

	"github.com/google/uuid"
)

type RenewalResponse struct {
	ID               uuid.UUID  `json:"id"`
	CustomerID       uuid.UUID  `json:"customer_id"`
	CustomerName     string     `json:"customer_name"`
	CustomerEmail    string     `json:"customer_email"`
	CustomerStatus   string     `json:"customer_status"`
	MembershipPlanID uuid.UUID  `json:"membership_plan_id"`
	PlanName         string     `json:"plan_name"`
	PlanMonths       int        `json:"plan_months"`
	RenewalDate      time.Time  `json:"renewal_date"`
	Concept          string     `json:"concept"`
	Amount           float64    `json:"amount"`
	MethodOfPayment  string     `json:"method_of_payment"`
	ReceivedBy       string     `json:"received_by"`
	PreviousEndDate  *time.Time `json:"previous_end_date,omitempty"`
	NewStartDate     time.Time  `json:"new_start_date"`
	NewEndDate       time.Time  `json:"new_end_date"`
}

type DeliveryRecordResponse struct {
	ID              uuid.UUID              `json:"id"`
	CustomerID      uuid.UUID              `json:"customer_id"`
	CustomerName    string                 `json:"customer_name"`
	LocationName    string                 `json:"location_name,omitempty"`
	LocationAddress string                 `json:"location_address,omitempty"`
	Zone            string                 `json:"zone,omitempty"`
	DeliveryTime    time.Time              `json:"delivery_time"`
	TransportType   string                 `json:"transport_type"`
	Quantity        int                    `json:"quantity"`
	ReturnedHuacals int                    `json:"returned_huacals"`
	Extras          map[string]interface{} `json:"extras,omitempty"`
	ExtraItem       *string                `json:"extra_item,omitempty"`
	ExtraPrice      *float64               `json:"extra_price,omitempty"`
	PaymentMethod   string                 `json:"payment_method"`
	CashPayment     float64                `json:"cash_payment"`
	Status          string                 `json:"status"`
	HomeAddress     *string                `json:"home_address,omitempty"`
}
