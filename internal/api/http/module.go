package http

import (
	"context"

	"go.uber.org/fx"

	apiconfig "github.com/proxykit/v1/internal/config/api"
)

// Module REST API fx模块
var Module = fx.Module("api.http",
	fx.Provide(NewServer),
	fx.Invoke(func(lc fx.Lifecycle, cfg *apiconfig.Config, server *Server) {
		if !cfg.IsEnabled() {
			return
		}
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				server.Start()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return server.Stop(ctx)
			},
		})
	}),
)
