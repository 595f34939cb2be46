package account_fx

import (
	"context"
	"time"

	"go.uber.org/fx"

	"ococalli/internal/config"
	"ococalli/internal/repositories"
	"ococalli/internal/services"
	"ococalli/pkg/middleware"
	"ococalli/pkg/utils"
)

var Module = fx.Provide(
	repositories.NewAccountRepository,
	provideTokenManager,
	provideAccessGate,
	services.NewAuthService,
	provideLoginLimiter,
)

func provideTokenManager(cfg config.AuthConfig, clock utils.Clock) (*utils.TokenManager, error) {
	return utils.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL, clock)
}

func provideAccessGate(cfg config.AuthConfig) *services.AccessGate {
	return services.NewAccessGate(cfg.AdminEmails, cfg.LoginPath)
}

func provideLoginLimiter(lc fx.Lifecycle, cfg config.AuthConfig) *middleware.IPRateLimiter {
	limiter := middleware.NewIPRateLimiter(cfg.LoginRatePerMinute)
	stop := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				ticker := time.NewTicker(time.Minute)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						limiter.Sweep()
					case <-stop:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			close(stop)
			return nil
		},
	})
	return limiter
}
