package request_models

type PlanRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     *string `json:"description"`
	Price           float64 `json:"price" binding:"gte=0"`
	DurationMonths  int     `json:"duration_months" binding:"gte=0"`
	FreeMonths      int     `json:"free_months" binding:"gte=0"`
	SubscriptionFee float64 `json:"subscription_fee" binding:"gte=0"`
}
