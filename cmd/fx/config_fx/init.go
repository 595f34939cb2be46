package config_fx

import (
	"go.uber.org/fx"

	"ococalli/internal/config"
)

var Module = fx.Provide(
	config.Load,
	provideDatabaseConfig,
	provideAuthConfig,
	provideSMTPConfig,
	provideLogConfig,
	provideOtelConfig,
)

func provideDatabaseConfig(cfg *config.Config) config.DatabaseConfig { return cfg.Database }

func provideAuthConfig(cfg *config.Config) config.AuthConfig { return cfg.Auth }

func provideSMTPConfig(cfg *config.Config) config.SMTPConfig { return cfg.SMTP }

func provideLogConfig(cfg *config.Config) config.LogConfig { return cfg.Log }

func provideOtelConfig(cfg *config.Config) config.OtelConfig { return cfg.Otel }
