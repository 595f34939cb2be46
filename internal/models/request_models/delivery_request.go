package request_models

type DeliveryExtras struct {
	Chocolate   string `json:"chocolate" binding:"omitempty,oneof=none white dark"`
	Blueberries bool   `json:"blueberries"`
	Cherries    bool   `json:"cherries"`
	Note        string `json:"note"`
}

type CreateDeliveryRequest struct {
	CustomerID       string          `json:"customer_id" binding:"required,uuid"`
	PickupLocationID *string         `json:"pickup_location_id" binding:"omitempty,uuid"`
	DeliveryTime     string          `json:"delivery_time"`
	TransportType    string          `json:"transport_type"`
	Quantity         int             `json:"quantity" binding:"gte=0"`
	ReturnedHuacals  int             `json:"returned_huacals" binding:"gte=0"`
	Extras           *DeliveryExtras `json:"extras"`
	HasExtra         bool            `json:"has_extra"`
	ExtraItem        *string         `json:"extra_item"`
	ExtraPrice       *float64        `json:"extra_price"`
	PaymentMethod    string          `json:"payment_method"`
	CashPayment      float64         `json:"cash_payment" binding:"gte=0"`
	Status           string          `json:"status"`
	HomeAddress      *string         `json:"home_address"`
}

type DeliveryFilter struct {
	// Zone matches the location zone, or its name when no zone is set.
	Zone       string `form:"zone"`
	CustomerID string `form:"customer_id"`
}
