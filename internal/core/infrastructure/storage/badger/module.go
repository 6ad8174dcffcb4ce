package badger

import (
	"context"

	"go.uber.org/fx"

	storageiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/storage"
)

// Module 存储基础设施fx模块
var Module = fx.Module("infrastructure.storage.badger",
	fx.Provide(
		fx.Annotate(
			NewStore,
			fx.As(new(storageiface.BadgerStore)),
		),
	),
	fx.Invoke(func(lc fx.Lifecycle, store storageiface.BadgerStore) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return store.Close()
			},
		})
	}),
)
