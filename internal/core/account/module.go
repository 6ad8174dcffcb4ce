package account

import (
	"go.uber.org/fx"

	chainconfig "github.com/proxykit/v1/internal/config/chain"
	engineiface "github.com/proxykit/v1/pkg/interfaces/engine"
	logiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/log"
	ledgeriface "github.com/proxykit/v1/pkg/interfaces/ledger"
)

// RegisterPrograms 登记账户程序并部署系统代码
//
// 逻辑实现与演示程序占用固定系统地址；账本已持久化过代码时
// 跳过重新部署，保持代码槽不可变。
func RegisterPrograms(
	registry engineiface.Registry,
	led ledgeriface.StateLedger,
	template *ProxyTemplate,
	logic *Logic,
	fixture *TransferFixture,
	logger logiface.Logger,
) error {
	if err := registry.RegisterTemplate(template); err != nil {
		return err
	}
	if err := registry.RegisterProgram(LogicCode, logic); err != nil {
		return err
	}
	if err := registry.RegisterProgram(TransferFixtureCode, fixture); err != nil {
		return err
	}

	if !led.HasCode(chainconfig.AccountLogicAddress) {
		led.SetCode(chainconfig.AccountLogicAddress, LogicCode)
	}
	if !led.HasCode(chainconfig.TransferFixtureAddress) {
		led.SetCode(chainconfig.TransferFixtureAddress, TransferFixtureCode)
	}

	logger.Infof("account programs registered, logic=%s fixture=%s",
		chainconfig.AccountLogicAddress.Hex(), chainconfig.TransferFixtureAddress.Hex())
	return nil
}

// Module 账户程序fx模块
var Module = fx.Module("core.account",
	fx.Provide(
		NewProxyTemplate,
		NewLogic,
		NewTransferFixture,
	),
	fx.Invoke(RegisterPrograms),
)
