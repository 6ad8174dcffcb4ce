package service

import (
	"go.uber.org/fx"
)

// Module API服务门面fx模块
var Module = fx.Module("api.service",
	fx.Provide(NewAccountService),
)
