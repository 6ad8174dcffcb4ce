package event

import (
	"context"

	"go.uber.org/fx"

	eventiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/event"
)

// Module 事件基础设施fx模块
var Module = fx.Module("infrastructure.event",
	fx.Provide(
		fx.Annotate(
			NewBus,
			fx.As(new(eventiface.Bus)),
		),
	),
	fx.Invoke(func(lc fx.Lifecycle, bus eventiface.Bus) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return bus.Close()
			},
		})
	}),
)
