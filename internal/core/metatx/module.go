package metatx

import (
	"go.uber.org/fx"
)

// Module 元交易验证fx模块
var Module = fx.Module("core.metatx",
	fx.Provide(NewVerifier),
)
