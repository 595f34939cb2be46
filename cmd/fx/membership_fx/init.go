package membership_fx

import (
	"go.uber.org/fx"

	"ococalli/internal/config"
	"ococalli/internal/repositories"
	"ococalli/internal/services"
	"ococalli/pkg/utils"
)

var Module = fx.Provide(
	provideClock,
	provideCodeGenerator,

	repositories.NewPlanRepository,
	repositories.NewCustomerRepository,
	repositories.NewPickupLocationRepository,
	repositories.NewRenewalRepository,
	repositories.NewDeliveryRepository,

	services.NewPlanService,
	services.NewCustomerService,
	services.NewRenewalService,
	services.NewPickupService,
	services.NewDeliveryService,
	services.NewExportService,
)

func provideClock() utils.Clock {
	return utils.SystemClock{}
}

func provideCodeGenerator(cfg *config.Config) (utils.CodeGenerator, error) {
	return utils.NewCodeGenerator(cfg.SnowflakeNode)
}
