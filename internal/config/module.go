package config

import (
	"go.uber.org/fx"

	apiconfig "github.com/proxykit/v1/internal/config/api"
	chainconfig "github.com/proxykit/v1/internal/config/chain"
	logconfig "github.com/proxykit/v1/internal/config/log"
	badgerconfig "github.com/proxykit/v1/internal/config/storage/badger"
)

// Module 配置层fx模块
//
// 上游须已提供 *types.AppConfig（通常由应用入口加载配置文件后注入）。
var Module = fx.Module("config",
	fx.Provide(NewProvider),
	fx.Provide(func(p *Provider) *logconfig.Config { return p.Log }),
	fx.Provide(func(p *Provider) *badgerconfig.Config { return p.Storage }),
	fx.Provide(func(p *Provider) *chainconfig.Config { return p.Chain }),
	fx.Provide(func(p *Provider) *apiconfig.Config { return p.API }),
)
