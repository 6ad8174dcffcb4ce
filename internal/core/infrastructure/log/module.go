package log

import (
	"go.uber.org/fx"
)

// Module 日志基础设施fx模块
var Module = fx.Module("infrastructure.log",
	fx.Provide(NewLogger),
)
