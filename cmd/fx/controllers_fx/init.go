package controllers_fx

import (
	"go.uber.org/fx"

	"ococalli/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewHealthController),
	fx.Provide(controllers.NewAuthController),
	fx.Provide(controllers.NewPlanController),
	fx.Provide(controllers.NewMemberController),
	fx.Provide(controllers.NewCustomerController),
	fx.Provide(controllers.NewRenewalController),
	fx.Provide(controllers.NewPickupController),
	fx.Provide(controllers.NewDeliveryController),
	fx.Provide(controllers.NewDashboardController),
	fx.Provide(controllers.NewExportController))
