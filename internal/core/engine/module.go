package engine

import (
	"go.uber.org/fx"

	engineiface "github.com/proxykit/v1/pkg/interfaces/engine"
)

// Module 调用引擎fx模块
var Module = fx.Module("core.engine",
	fx.Provide(
		fx.Annotate(
			NewRegistry,
			fx.As(new(engineiface.Registry)),
		),
		fx.Annotate(
			NewEngine,
			fx.As(new(engineiface.CallEngine)),
		),
	),
)
