// Package factory 确定性账户工厂与部署打包器
//
// 🎯 **先有地址，后有账户**
//
// 账户地址由 (工厂地址, 初始化码, 盐值) 经CREATE2规则纯函数推导，
// 部署只是"激活"这个预留地址：部署前打入该地址的原生价值在部署后
// 原封不动归属账户。
package factory

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	chainconfig "github.com/proxykit/v1/internal/config/chain"
	"github.com/proxykit/v1/internal/core/account"
	engineiface "github.com/proxykit/v1/pkg/interfaces/engine"
	cryptoiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/crypto"
	eventiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/event"
	logiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/log"
	ledgeriface "github.com/proxykit/v1/pkg/interfaces/ledger"
	"github.com/proxykit/v1/pkg/types"
)

// Factory 账户部署工厂
type Factory struct {
	engine engineiface.CallEngine
	ledger ledgeriface.StateLedger
	hasher cryptoiface.HashManager
	bus    eventiface.Bus
	logger logiface.Logger

	// addr 工厂的系统地址，作为CREATE2的部署者参与地址推导
	addr common.Address
}

// NewFactory 创建账户工厂
func NewFactory(
	engine engineiface.CallEngine,
	ledger ledgeriface.StateLedger,
	hasher cryptoiface.HashManager,
	bus eventiface.Bus,
	logger logiface.Logger,
) *Factory {
	return &Factory{
		engine: engine,
		ledger: ledger,
		hasher: hasher,
		bus:    bus,
		logger: logger,
		addr:   chainconfig.FactoryAddress,
	}
}

// Address 工厂系统地址
func (f *Factory) Address() common.Address { return f.addr }

// ComputeAddress 推导给定初始化码与盐值的部署地址
func (f *Factory) ComputeAddress(initCode []byte, salt types.Word) common.Address {
	return ComputeAddress(f.hasher, f.addr, initCode, salt)
}

// Deploy 部署账户
//
// 失败（地址冲突、构造拒绝、未知模板）统一以 ErrDeploymentFailed
// 携带底层原因上抛；引擎保证失败部署不留任何状态。
func (f *Factory) Deploy(ctx context.Context, initCode []byte, salt types.Word) (common.Address, error) {
	if len(initCode) == 0 {
		return common.Address{}, WrapDeploymentFailed(ErrEmptyInitCode)
	}

	addr, err := f.engine.Create2(ctx, f.addr, initCode, salt)
	if err != nil {
		return common.Address{}, WrapDeploymentFailed(err)
	}

	owner := account.OwnerOf(account.NewLedgerSlots(f.ledger, addr))
	f.logger.Infof("account deployed, address=%s owner=%s", addr.Hex(), owner.Hex())

	f.bus.Publish(types.EventAccountDeployed, types.AccountDeployedEvent{
		Account:   addr,
		Owner:     owner,
		Salt:      salt,
		Timestamp: time.Now(),
	})
	return addr, nil
}
