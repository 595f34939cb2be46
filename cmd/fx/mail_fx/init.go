package mail_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"ococalli/internal/config"
	"ococalli/internal/services"
)

var Module = fx.Provide(provideMailService)

func provideMailService(cfg *config.Config, log *zap.Logger) (services.IMailService, error) {
	return services.NewMailService(cfg.SMTP, cfg.BaseURL, log)
}
