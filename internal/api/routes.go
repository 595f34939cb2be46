package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"ococalli/internal/api/controllers"
	"ococalli/internal/services"
	"ococalli/pkg/middleware"
	"ococalli/pkg/utils"
)

// Handlers is everything RegisterRoutes mounts.
type Handlers struct {
	fx.In

	Auth         services.AuthService
	Gate         *services.AccessGate
	LoginLimiter *middleware.IPRateLimiter

	Health    *controllers.HealthController
	Account   *controllers.AuthController
	Plans     *controllers.PlanController
	Members   *controllers.MemberController
	Customers *controllers.CustomerController
	Renewals  *controllers.RenewalController
	Pickups   *controllers.PickupController
	Delivery  *controllers.DeliveryController
	Dashboard *controllers.DashboardController
	Exports   *controllers.ExportController
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/healthz", h.Health.Health)

	authenticated := middleware.JWTAuthMiddleware(h.Auth)
	adminOnly := middleware.AdminOnly(h.Auth, h.Gate)
	memberOnly := middleware.RoleMiddleware(utils.RoleMember)

	auth := r.Group("/auth")
	{
		auth.POST("/admin/login", h.LoginLimiter.Middleware(), h.Account.AdminLogin)
		auth.POST("/member/login", h.LoginLimiter.Middleware(), h.Account.MemberLogin)
		auth.POST("/logout", authenticated, h.Account.Logout)
		auth.GET("/session", authenticated, h.Account.Session)
	}

	plans := r.Group("/plans")
	{
		plans.GET("", h.Plans.ListPlans)
		plans.GET("/:id", h.Plans.GetPlan)
		plans.POST("", adminOnly, h.Plans.CreatePlan)
		plans.PUT("/:id", adminOnly, h.Plans.UpdatePlan)
		plans.DELETE("/:id", adminOnly, h.Plans.DeletePlan)
	}

	members := r.Group("/members")
	{
		members.POST("/register", h.LoginLimiter.Middleware(), h.Members.Register)
		members.GET("/code/:code", h.Members.LookupByCode)
		members.GET("/me", authenticated, memberOnly, h.Members.Me)
		members.PUT("/me/pickup-location", authenticated, memberOnly, h.Members.SetPickupLocation)
	}

	r.GET("/pickup-locations", h.Pickups.ListLocations)

	admin := r.Group("/admin", adminOnly)
	{
		admin.GET("/customers", h.Customers.ListCustomers)
		admin.POST("/customers", h.Customers.CreateCustomer)
		admin.GET("/customers/:id", h.Customers.GetCustomer)
		admin.PUT("/customers/:id", h.Customers.UpdateCustomer)
		admin.DELETE("/customers/:id", h.Customers.DeleteCustomer)
		admin.POST("/customers/:id/cancel", h.Customers.CancelCustomer)
		admin.POST("/customers/:id/deliver", h.Customers.MarkDelivered)

		admin.GET("/renewals", h.Renewals.ListRenewals)
		admin.POST("/renewals", h.Renewals.CreateRenewal)

		admin.POST("/pickup-locations", h.Pickups.CreateLocation)
		admin.PUT("/pickup-locations/:id", h.Pickups.UpdateLocation)
		admin.DELETE("/pickup-locations/:id", h.Pickups.DeleteLocation)
		admin.GET("/pickups/groups", h.Pickups.Groups)

		admin.GET("/deliveries", h.Delivery.ListDeliveries)
		admin.POST("/deliveries", h.Delivery.CreateDelivery)

		admin.GET("/dashboard/stats", h.Dashboard.GetDashboard)

		admin.GET("/exports/customers.xlsx", h.Exports.CustomersXLSX)
		admin.GET("/exports/renewals.xlsx", h.Exports.RenewalsXLSX)
		admin.GET("/exports/pickups.xlsx", h.Exports.PickupsXLSX)
		admin.GET("/exports/pickups.pdf", h.Exports.PickupsPDF)
	}
}
