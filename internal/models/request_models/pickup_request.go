package request_models

type PickupLocationRequest struct {
	Name         string   `json:"name" binding:"required"`
	Address      string   `json:"address" binding:"required"`
	Schedule     *string  `json:"schedule"`
	Zone         *string  `json:"zone"`
	DeliveryDays []string `json:"delivery_days"`
}
