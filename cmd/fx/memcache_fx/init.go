package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	mem "ococalli/pkg/memcache"
)

const sweepInterval = 5 * time.Minute

var Module = fx.Provide(provideRevokedTokens)

// provideRevokedTokens also runs the sweeper that forgets tokens which have
// expired on their own.
func provideRevokedTokens(lc fx.Lifecycle, log *zap.Logger) mem.RevokedTokenStore {
	store := mem.NewRevokedTokens()
	stop := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				ticker := time.NewTicker(sweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if n := store.Sweep(); n > 0 {
							log.Debug("swept revoked tokens", zap.Int("count", n))
						}
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
	return store
}
