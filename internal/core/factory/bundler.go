package factory

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	chainconfig "github.com/proxykit/v1/internal/config/chain"
	"github.com/proxykit/v1/internal/core/account"
	engineiface "github.com/proxykit/v1/pkg/interfaces/engine"
	logiface "github.com/proxykit/v1/pkg/interfaces/infrastructure/log"
	ledgeriface "github.com/proxykit/v1/pkg/interfaces/ledger"
	"github.com/proxykit/v1/pkg/types"
)

// Bundler 部署打包器
//
// 🎯 **原子的部署+执行**
//
// 一次入口完成"部署账户 + 执行载荷"两步，整体全或无：
// 执行失败时本次部署一并回滚，外界观察不到半完成状态。
//
// 准入由打包器自己的角色存储把关（挂在打包器系统地址下，
// 复用账户的保留槽布局）：仅登记在册的executor可调用。
// 打包器角色的引导链：配置指定owner → owner添加admin →
// admin登记executor。
type Bundler struct {
	factory *Factory
	engine  engineiface.CallEngine
	ledger  ledgeriface.StateLedger
	logger  logiface.Logger

	// addr 打包器系统地址，角色存储的作用域
	addr common.Address
}

// NewBundler 创建部署打包器
func NewBundler(
	factory *Factory,
	engine engineiface.CallEngine,
	ledger ledgeriface.StateLedger,
	chainCfg *chainconfig.Config,
	logger logiface.Logger,
) *Bundler {
	b := &Bundler{
		factory: factory,
		engine:  engine,
		ledger:  ledger,
		logger:  logger,
		addr:    chainconfig.BundlerAddress,
	}

	// 角色存储引导：owner只在首启写入一次，之后不可变
	slots := b.slots()
	if account.OwnerOf(slots) == (common.Address{}) {
		owner := chainCfg.GetBundlerOwner()
		if owner != (common.Address{}) {
			account.SetOwner(slots, owner)
			logger.Infof("bundler role store bootstrapped, owner=%s", owner.Hex())
		}
	}
	return b
}

// Address 打包器系统地址
func (b *Bundler) Address() common.Address { return b.addr }

func (b *Bundler) slots() *account.LedgerSlots {
	return account.NewLedgerSlots(b.ledger, b.addr)
}

// Owner 打包器角色存储的所有者
func (b *Bundler) Owner() common.Address {
	return account.OwnerOf(b.slots())
}

// IsExecutor 查询executor准入
func (b *Bundler) IsExecutor(member common.Address) bool {
	return account.IsExecutor(b.slots(), member)
}

// IsAdmin 查询admin身份
func (b *Bundler) IsAdmin(member common.Address) bool {
	return account.IsAdmin(b.slots(), member)
}

// AddAdmin 登记打包器admin
//
// owner可引导任意admin；既有admin可添加新admin。幂等。
func (b *Bundler) AddAdmin(caller, member common.Address) error {
	slots := b.slots()
	if caller != account.OwnerOf(slots) && !account.IsAdmin(slots, caller) {
		return fmt.Errorf("%w: caller %s may not add bundler admin", account.ErrNotAuthorized, caller.Hex())
	}
	account.GrantAdmin(slots, member)
	return nil
}

// AddExecutor 登记打包器executor，仅admin可操作。幂等。
func (b *Bundler) AddExecutor(caller, member common.Address) error {
	slots := b.slots()
	if !account.IsAdmin(slots, caller) {
		return fmt.Errorf("%w: caller %s is not bundler admin", account.ErrNotAuthorized, caller.Hex())
	}
	account.GrantExecutor(slots, member)
	return nil
}

// DeployAndExecute 原子部署并执行
//
// 流程：
//  1. 准入：caller必须是登记在册的executor，否则 ErrNotAuthorizedExecutor
//  2. 入口快照：部署与执行共用同一回滚边界
//  3. 目标地址已持有代码时跳过部署（幂等重部署策略），否则CREATE2部署
//  4. 以打包器为调用者将载荷提交给账户执行
//  5. 任一步失败回滚到入口快照：执行失败连同本次部署一并消失
func (b *Bundler) DeployAndExecute(
	ctx context.Context,
	caller common.Address,
	initCode []byte,
	salt types.Word,
	payload []byte,
) ([]byte, error) {
	if !b.IsExecutor(caller) {
		return nil, fmt.Errorf("%w: caller %s", ErrNotAuthorizedExecutor, caller.Hex())
	}

	snapshot := b.ledger.Snapshot()

	target := b.factory.ComputeAddress(initCode, salt)
	if !b.ledger.HasCode(target) {
		deployed, err := b.factory.Deploy(ctx, initCode, salt)
		if err != nil {
			b.ledger.RevertToSnapshot(snapshot)
			return nil, err
		}
		target = deployed
	}

	output, err := b.engine.Call(ctx, b.addr, target, nil, payload)
	if err != nil {
		b.ledger.RevertToSnapshot(snapshot)
		return nil, err
	}

	b.logger.Infof("deploy-and-execute completed, account=%s executor=%s", target.Hex(), caller.Hex())
	return output, nil
}
