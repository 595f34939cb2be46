package response_models

type DashboardStats struct {
	TotalPlans         int64   `json:"total_plans"`
	TotalCustomers     int64   `json:"total_customers"`
	ActiveCustomers    int64   `json:"active_customers"`
	CancelledCustomers int64   `json:"cancelled_customers"`
	PendingCustomers   int64   `json:"pending_customers"`
	RenewalsLast30Days int64   `json:"renewals_last_30_days"`
	RevenueLast30Days  float64 `json:"revenue_last_30_days"`
	ExpiringSoon       int64   `json:"expiring_soon"`
	Expired            int64   `json:"expired"`
	Delivered          int64   `json:"delivered"`
	PendingDelivery    int64   `json:"pending_delivery"`
	PickupLocations    int64   `json:"pickup_locations"`
}
