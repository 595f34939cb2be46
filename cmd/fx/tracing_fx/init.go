package tracing_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"ococalli/internal/config"
	"ococalli/internal/infra"
)

var Module = fx.Invoke(registerTracing)

func registerTracing(lc fx.Lifecycle, cfg config.OtelConfig, log *zap.Logger) {
	var shutdown func(context.Context) error
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			shutdown, err = infra.SetupTracing(ctx, cfg)
			if err != nil {
				// the API still works without traces
				log.Warn("tracing disabled", zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(ctx)
		},
	})
}
