package request_models

type RegisterRequest struct {
	Name             string  `json:"name" binding:"required"`
	Email            string  `json:"email" binding:"required,email"`
	Phone            *string `json:"phone"`
	Password         string  `json:"password" binding:"required,min=6"`
	MembershipPlanID string  `json:"membership_plan_id" binding:"required,uuid"`
}

// CreateCustomerRequest is the back-office variant of registration.
type CreateCustomerRequest struct {
	RegisterRequest
	Status           string  `json:"status" binding:"omitempty,oneof=ACTIVE CANCELLED PENDING"`
	PickupLocationID *string `json:"pickup_location_id" binding:"omitempty,uuid"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
}

// UpdateCustomerRequest only touches the fields that are present.
// The membership code is not editable.
type UpdateCustomerRequest struct {
	Name             *string `json:"name"`
	Email            *string `json:"email" binding:"omitempty,email"`
	Phone            *string `json:"phone"`
	Status           *string `json:"status" binding:"omitempty,oneof=ACTIVE CANCELLED PENDING"`
	MembershipPlanID *string `json:"membership_plan_id" binding:"omitempty,uuid"`
	PickupLocationID *string `json:"pickup_location_id"`
	StartDate        *string `json:"start_date"`
	EndDate          *string `json:"end_date"`
}

type SetPickupLocationRequest struct {
	// empty or null clears the assignment
	PickupLocationID *string `json:"pickup_location_id"`
}

type CustomerFilter struct {
	Query  string `form:"q"`
	Status string `form:"status"`
}
