package factory

import (
	"go.uber.org/fx"
)

// Module 工厂与打包器fx模块
var Module = fx.Module("core.factory",
	fx.Provide(
		NewFactory,
		NewBundler,
	),
)
