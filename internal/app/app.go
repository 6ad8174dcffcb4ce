// Package app 应用装配与生命周期
//
// ⚙️ **启动顺序**
//  1. 加载JSON配置文件 → 配置层合并默认值
//  2. 基础设施：日志、存储、事件、密码学
//  3. 账本从持久化存储恢复状态
//  4. 核心：引擎、账户程序登记、工厂与打包器
//  5. API：服务门面、JSON-RPC、REST
package app

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	httpapi "github.com/proxykit/v1/internal/api/http"
	"github.com/proxykit/v1/internal/api/jsonrpc"
	"github.com/proxykit/v1/internal/api/service"
	"github.com/proxykit/v1/internal/config"
	"github.com/proxykit/v1/internal/core/account"
	"github.com/proxykit/v1/internal/core/engine"
	"github.com/proxykit/v1/internal/core/factory"
	cryptomodule "github.com/proxykit/v1/internal/core/infrastructure/crypto"
	eventmodule "github.com/proxykit/v1/internal/core/infrastructure/event"
	logmodule "github.com/proxykit/v1/internal/core/infrastructure/log"
	badgermodule "github.com/proxykit/v1/internal/core/infrastructure/storage/badger"
	"github.com/proxykit/v1/internal/core/ledger"
	"github.com/proxykit/v1/internal/core/metatx"
	logiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/log"
	ledgeriface "github.com/proxykit/v1/pkg/interfaces/ledger"
)

// New 构建应用实例
func New(configPath string) (*fx.App, error) {
	appConfig, err := config.LoadAppConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	app := fx.New(
		fx.Supply(appConfig),
		fx.WithLogger(func(logger logiface.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.GetZapLogger()}
		}),

		config.Module,

		logmodule.Module,
		badgermodule.Module,
		eventmodule.Module,
		cryptomodule.Module,

		ledger.Module,
		engine.Module,

		// 账本恢复必须先于系统程序部署检查
		fx.Invoke(func(led ledgeriface.StateLedger, logger logiface.Logger) error {
			if err := led.Load(context.Background()); err != nil {
				return err
			}
			logger.Info("state ledger restored from storage")
			return nil
		}),

		metatx.Module,
		account.Module,
		factory.Module,

		service.Module,
		jsonrpc.Module,
		httpapi.Module,
	)

	if err := app.Err(); err != nil {
		return nil, err
	}
	return app, nil
}
